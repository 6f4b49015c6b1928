package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
)

// recentScanCount is how many latest scans the stats view includes
const recentScanCount = 5

// ProfileService serves farmer profiles and their aggregated scan views
type ProfileService struct {
	store RecordStore
}

// NewProfileService creates a new profile service
func NewProfileService(store RecordStore) *ProfileService {
	return &ProfileService{store: store}
}

// Register creates a farmer profile for a verified principal id. The identity
// provider owns credentials; this only persists the profile row.
func (s *ProfileService) Register(ctx context.Context, profile domain.FarmerProfile) (domain.FarmerProfile, error) {
	if profile.ID == "" {
		return domain.FarmerProfile{}, domain.Validationf("farmer id required")
	}
	if profile.Name == "" || profile.Email == "" {
		return domain.FarmerProfile{}, domain.Validationf("name and email required")
	}
	profile.TotalScans = 0
	profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.store.CreateFarmer(ctx, profile); err != nil {
		return domain.FarmerProfile{}, fmt.Errorf("profile: failed to create farmer: %w", err)
	}
	return profile, nil
}

// Get returns a bare farmer profile
func (s *ProfileService) Get(ctx context.Context, farmerID string) (domain.FarmerProfile, error) {
	return s.store.GetFarmer(ctx, farmerID)
}

// ProfileWithStats returns the profile plus the five most recent scans and a
// risk-level breakdown. The breakdown is recomputed from every scan record on
// each call instead of being maintained incrementally: O(n) in the farmer's
// scan count per read, but always exact as of read time. A future incremental
// counter map may replace the rescan as long as exactness is preserved under
// concurrent writes.
func (s *ProfileService) ProfileWithStats(ctx context.Context, farmerID string) (domain.FarmerStats, error) {
	profile, err := s.store.GetFarmer(ctx, farmerID)
	if err != nil {
		return domain.FarmerStats{}, err
	}

	recent, err := s.store.ScansByFarmer(ctx, farmerID, recentScanCount)
	if err != nil {
		return domain.FarmerStats{}, fmt.Errorf("profile: failed to load recent scans: %w", err)
	}

	all, err := s.store.AllScansByFarmer(ctx, farmerID)
	if err != nil {
		return domain.FarmerStats{}, fmt.Errorf("profile: failed to load scans for breakdown: %w", err)
	}

	var breakdown domain.RiskBreakdown
	for _, scan := range all {
		switch scan.RiskLevel {
		case domain.RiskHigh:
			breakdown.High++
		case domain.RiskMedium:
			breakdown.Medium++
		case domain.RiskLow:
			breakdown.Low++
		}
	}

	if recent == nil {
		recent = []domain.ScanRecord{}
	}
	return domain.FarmerStats{
		FarmerProfile: profile,
		RecentScans:   recent,
		RiskBreakdown: breakdown,
	}, nil
}
