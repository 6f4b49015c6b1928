package service

import (
	"context"
	"encoding/json"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
)

// RecordStore is re-exported from domain for convenience
type RecordStore = domain.RecordStore

// Predictor is the narrow contract to the external ML service. Implemented by
// PredictorClient; faked in gateway tests.
type Predictor interface {
	PredictDisease(ctx context.Context, image []byte, mimeType string) (domain.DiseasePrediction, error)
	PredictForecast(ctx context.Context, series []float64, weather domain.Weather, districtID int) (domain.ForecastResult, error)
	PredictFull(ctx context.Context, req domain.SatelliteRequest) (json.RawMessage, error)
	Health(ctx context.Context) (domain.PredictorHealth, error)
}
