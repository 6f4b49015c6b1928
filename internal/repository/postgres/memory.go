package postgres

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
)

// MemoryStore implements domain.RecordStore in process memory. It backs
// DB-less demo mode and the test suite. All operations are mutex-guarded so
// the counter invariant (no lost increments) holds under concurrency.
type MemoryStore struct {
	mu        sync.Mutex
	farmers   map[string]domain.FarmerProfile
	scans     map[string]domain.ScanRecord
	forecasts map[string]domain.ForecastRecord
	scanSeq   map[string]int // scan id -> insertion order, breaks timestamp ties
	fcSeq     map[string]int
	seq       int
}

// NewMemoryStore creates an empty in-memory record store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		farmers:   make(map[string]domain.FarmerProfile),
		scans:     make(map[string]domain.ScanRecord),
		forecasts: make(map[string]domain.ForecastRecord),
		scanSeq:   make(map[string]int),
		fcSeq:     make(map[string]int),
	}
}

// CreateFarmer persists a farmer profile; fails on duplicate id
func (r *MemoryStore) CreateFarmer(ctx context.Context, p domain.FarmerProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.farmers[p.ID]; exists {
		return fmt.Errorf("memory: farmer %s already exists", p.ID)
	}
	r.farmers[p.ID] = p
	return nil
}

// GetFarmer retrieves a farmer profile
func (r *MemoryStore) GetFarmer(ctx context.Context, farmerID string) (domain.FarmerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.farmers[farmerID]
	if !ok {
		return domain.FarmerProfile{}, domain.ErrNotFound
	}
	return p, nil
}

// IncrementScanCount bumps totalScans under the store lock
func (r *MemoryStore) IncrementScanCount(ctx context.Context, farmerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.farmers[farmerID]
	if !ok {
		return domain.ErrNotFound
	}
	p.TotalScans++
	r.farmers[farmerID] = p
	return nil
}

// CreateScan persists a scan record; fails on duplicate id
func (r *MemoryStore) CreateScan(ctx context.Context, s domain.ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.scans[s.ScanID]; exists {
		return fmt.Errorf("memory: scan %s already exists", s.ScanID)
	}
	r.seq++
	r.scans[s.ScanID] = s
	r.scanSeq[s.ScanID] = r.seq
	return nil
}

// GetScan retrieves a single scan including its inline image
func (r *MemoryStore) GetScan(ctx context.Context, scanID string) (domain.ScanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.scans[scanID]
	if !ok {
		return domain.ScanRecord{}, domain.ErrNotFound
	}
	return s, nil
}

// ScansByFarmer returns up to limit scans, newest first, images stripped
func (r *MemoryStore) ScansByFarmer(ctx context.Context, farmerID string, limit int) ([]domain.ScanRecord, error) {
	all, err := r.AllScansByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// AllScansByFarmer returns every scan for a farmer, newest first, images stripped
func (r *MemoryStore) AllScansByFarmer(ctx context.Context, farmerID string) ([]domain.ScanRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []domain.ScanRecord
	for _, s := range r.scans {
		if s.FarmerID == farmerID {
			results = append(results, s.WithoutImage())
		}
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.ScannedAt != b.ScannedAt {
			return a.ScannedAt > b.ScannedAt
		}
		return r.scanSeq[a.ScanID] > r.scanSeq[b.ScanID]
	})
	return results, nil
}

// CreateForecast persists a forecast record; fails on duplicate id
func (r *MemoryStore) CreateForecast(ctx context.Context, f domain.ForecastRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.forecasts[f.ForecastID]; exists {
		return fmt.Errorf("memory: forecast %s already exists", f.ForecastID)
	}
	r.seq++
	r.forecasts[f.ForecastID] = f
	r.fcSeq[f.ForecastID] = r.seq
	return nil
}

// LatestForecastByDistrict returns the most recent forecast for a district
func (r *MemoryStore) LatestForecastByDistrict(ctx context.Context, districtID int) (domain.ForecastRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		latest domain.ForecastRecord
		found  bool
	)
	for _, f := range r.forecasts {
		if f.DistrictID != districtID {
			continue
		}
		if !found || f.CreatedAt > latest.CreatedAt ||
			(f.CreatedAt == latest.CreatedAt && r.fcSeq[f.ForecastID] > r.fcSeq[latest.ForecastID]) {
			latest = f
			found = true
		}
	}
	if !found {
		return domain.ForecastRecord{}, domain.ErrNotFound
	}
	return latest, nil
}

// Health always succeeds for the in-memory store
func (r *MemoryStore) Health(ctx context.Context) error {
	return nil
}
