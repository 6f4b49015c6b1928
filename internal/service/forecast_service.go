package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/logger"
)

// ForecastService orchestrates 7-day risk forecasts and the full satellite
// pipeline. When a caller supplies no NDVI series at all, a synthetic one is
// generated from the weather drivers; a series that is present but shorter
// than 7 points is rejected outright.
type ForecastService struct {
	predictor Predictor
	store     RecordStore
	signals   *SignalGenerator
	log       *logger.Logger
}

// NewForecastService creates a new forecast service
func NewForecastService(predictor Predictor, store RecordStore, signals *SignalGenerator, log *logger.Logger) *ForecastService {
	return &ForecastService{
		predictor: predictor,
		store:     store,
		signals:   signals,
		log:       log,
	}
}

// SubmitForecast validates or synthesizes the NDVI series, delegates to the
// predictor and persists the result tagged with the caller's id.
func (s *ForecastService) SubmitForecast(ctx context.Context, farmerID string, req domain.ForecastRequest) (domain.ForecastRecord, error) {
	series := req.NDVISeries
	if len(series) == 0 {
		series = s.signals.Generate(req.Weather)
		s.log.Debug("no NDVI series supplied, generated synthetic signal",
			"farmer_id", farmerID, "district_id", req.DistrictID)
	} else if len(series) < 7 {
		return domain.ForecastRecord{}, domain.Validationf("minimum 7 NDVI values required, got %d", len(series))
	}

	result, err := s.predictor.PredictForecast(ctx, series, req.Weather, req.DistrictID)
	if err != nil {
		return domain.ForecastRecord{}, err
	}

	record := domain.ForecastRecord{
		ForecastID: uuid.NewString(),
		FarmerID:   farmerID,
		DistrictID: req.DistrictID,
		Result:     result,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.CreateForecast(ctx, record); err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("forecast: failed to save record: %w", err)
	}

	return record, nil
}

// SubmitSatellite runs the full satellite pipeline and passes the predictor's
// result through unmodified. Nothing is persisted.
func (s *ForecastService) SubmitSatellite(ctx context.Context, req domain.SatelliteRequest) (json.RawMessage, error) {
	return s.predictor.PredictFull(ctx, req)
}
