package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/logger"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/repository/postgres"
)

func sampleForecastResult() domain.ForecastResult {
	return domain.ForecastResult{
		Forecast: []domain.ForecastDay{
			{Day: 1, RiskScore: 0.3, RiskLevel: domain.RiskLow},
			{Day: 2, RiskScore: 0.4, RiskLevel: domain.RiskMedium},
			{Day: 3, RiskScore: 0.5, RiskLevel: domain.RiskMedium},
			{Day: 4, RiskScore: 0.72, RiskLevel: domain.RiskHigh},
			{Day: 5, RiskScore: 0.6, RiskLevel: domain.RiskMedium},
			{Day: 6, RiskScore: 0.45, RiskLevel: domain.RiskMedium},
			{Day: 7, RiskScore: 0.3, RiskLevel: domain.RiskLow},
		},
		PeakRiskDay:    4,
		MaxRiskLevel:   domain.RiskHigh,
		MaxRiskScore:   0.72,
		Recommendation: "Scout fields on day 4",
	}
}

func newForecastService(predictor *fakePredictor, store *postgres.MemoryStore) *ForecastService {
	signals := NewSignalGeneratorWithSource(func() float64 { return 0.5 })
	return NewForecastService(predictor, store, signals, logger.NewNop())
}

func TestSubmitForecastShortSeries(t *testing.T) {
	predictor := &fakePredictor{forecastResult: sampleForecastResult()}
	store := postgres.NewMemoryStore()
	svc := newForecastService(predictor, store)

	_, err := svc.SubmitForecast(context.Background(), "F1", domain.ForecastRequest{
		NDVISeries: []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5},
	})
	assert.True(t, domain.IsValidation(err), "want validation error, got %v", err)
	assert.Zero(t, predictor.forecastCalls, "no network call on invalid input")
}

func TestSubmitForecastSynthesizesMissingSeries(t *testing.T) {
	ctx := context.Background()
	predictor := &fakePredictor{forecastResult: sampleForecastResult()}
	store := postgres.NewMemoryStore()
	svc := newForecastService(predictor, store)

	record, err := svc.SubmitForecast(ctx, "F1", domain.ForecastRequest{
		Weather:    domain.Weather{Temperature: 30, Humidity: 70},
		DistrictID: 2,
	})
	require.NoError(t, err)

	require.Equal(t, 1, predictor.forecastCalls)
	assert.Len(t, predictor.lastSeries, 30, "synthetic series feeds the predictor")
	for _, v := range predictor.lastSeries {
		assert.GreaterOrEqual(t, v, 0.10)
		assert.LessOrEqual(t, v, 0.95)
	}

	assert.Equal(t, "F1", record.FarmerID)
	assert.Equal(t, 2, record.DistrictID)
	assert.Equal(t, domain.RiskHigh, record.Result.MaxRiskLevel)
}

func TestSubmitForecastPersistsRecord(t *testing.T) {
	ctx := context.Background()
	predictor := &fakePredictor{forecastResult: sampleForecastResult()}
	store := postgres.NewMemoryStore()
	svc := newForecastService(predictor, store)

	series := []float64{0.6, 0.59, 0.58, 0.57, 0.55, 0.54, 0.52}
	record, err := svc.SubmitForecast(ctx, "F1", domain.ForecastRequest{
		NDVISeries: series,
		DistrictID: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, series, predictor.lastSeries, "supplied series passed through untouched")

	stored, err := store.LatestForecastByDistrict(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, record.ForecastID, stored.ForecastID)
	assert.Equal(t, sampleForecastResult(), stored.Result)
}

func TestSubmitForecastPredictorErrorNotPersisted(t *testing.T) {
	ctx := context.Background()
	predictor := &fakePredictor{err: domain.ErrPredictorUnavailable}
	store := postgres.NewMemoryStore()
	svc := newForecastService(predictor, store)

	_, err := svc.SubmitForecast(ctx, "F1", domain.ForecastRequest{
		NDVISeries: []float64{0.6, 0.6, 0.6, 0.6, 0.6, 0.6, 0.6},
		DistrictID: 1,
	})
	assert.ErrorIs(t, err, domain.ErrPredictorUnavailable)

	_, err = store.LatestForecastByDistrict(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
