package domain

// Weather carries the drivers the forecasting model consumes. Mirrors the
// predictor's request shape.
type Weather struct {
	Temperature float64 `json:"temp"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
	DayOfYear   int     `json:"day_of_year,omitempty"`
}

// DiseasePrediction is the predictor's response to an image classification
type DiseasePrediction struct {
	Disease        string             `json:"disease"`
	Confidence     float64            `json:"confidence"`
	RiskLevel      RiskLevel          `json:"risk_level"`
	RiskScore      float64            `json:"risk_score"`
	Recommendation string             `json:"recommendation"`
	Top5           []DiseaseCandidate `json:"top5"`
}

// ForecastRequest is the JSON body of a forecast submission. An empty NDVI
// series means no measured data was available; the gateway synthesizes one.
type ForecastRequest struct {
	NDVISeries []float64 `json:"ndvi_series"`
	Weather    Weather   `json:"weather"`
	DistrictID int       `json:"district_id,omitempty"`
}

// SatelliteRequest is the JSON body of a full satellite-pipeline request
type SatelliteRequest struct {
	BBox       []float64 `json:"bbox"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	DistrictID int       `json:"district_id,omitempty"`
}

// PredictorHealth is the predictor's liveness report
type PredictorHealth struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail,omitempty"`
}
