package service

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/pkg/utils"
)

// DistrictService serves the static district reference table and the latest
// stored risk per district. Latest-risk lookups are cached briefly since the
// underlying query scans the forecast table.
type DistrictService struct {
	store     RecordStore
	riskCache *gocache.Cache
}

// NewDistrictService creates a new district service
func NewDistrictService(store RecordStore) *DistrictService {
	return &DistrictService{
		store:     store,
		riskCache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// All returns every seeded district
func (s *DistrictService) All() []domain.DistrictReference {
	return domain.Districts
}

// ByID returns a single district; ErrNotFound when the id is unknown
func (s *DistrictService) ByID(id int) (domain.DistrictReference, error) {
	for _, d := range domain.Districts {
		if d.ID == id {
			return d, nil
		}
	}
	return domain.DistrictReference{}, domain.ErrNotFound
}

// Nearest returns the district whose centroid is closest to the given point
func (s *DistrictService) Nearest(lat, lon float64) domain.DistrictReference {
	nearest := domain.Districts[0]
	best := utils.Haversine(lat, lon, nearest.Lat, nearest.Lon)
	for _, d := range domain.Districts[1:] {
		if dist := utils.Haversine(lat, lon, d.Lat, d.Lon); dist < best {
			best = dist
			nearest = d
		}
	}
	return nearest
}

// LatestRisk returns the most recent forecast stored for a district, cached
// for a few minutes. ErrNotFound when no forecast exists yet.
func (s *DistrictService) LatestRisk(ctx context.Context, districtID int) (domain.ForecastRecord, error) {
	if _, err := s.ByID(districtID); err != nil {
		return domain.ForecastRecord{}, err
	}

	key := fmt.Sprintf("district-risk:%d", districtID)
	if cached, ok := s.riskCache.Get(key); ok {
		return cached.(domain.ForecastRecord), nil
	}

	record, err := s.store.LatestForecastByDistrict(ctx, districtID)
	if err != nil {
		return domain.ForecastRecord{}, err
	}
	s.riskCache.SetDefault(key, record)
	return record, nil
}
