package domain

// DiseaseCandidate is one (label, confidence) entry of the predictor's top-5 list
type DiseaseCandidate struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// ScanRecord is a persisted disease scan. Immutable once written; the inline
// image is kept only for single-scan retrieval and stripped from every list view.
type ScanRecord struct {
	ScanID         string             `json:"scanId"`
	FarmerID       string             `json:"farmerId"`
	CropType       string             `json:"cropType"`
	FieldLocation  string             `json:"fieldLocation,omitempty"`
	ImageBase64    string             `json:"imageBase64,omitempty"`
	Disease        string             `json:"disease"`
	Confidence     float64            `json:"confidence"`
	RiskLevel      RiskLevel          `json:"riskLevel"`
	RiskScore      float64            `json:"riskScore"`
	Recommendation string             `json:"recommendation"`
	Top5           []DiseaseCandidate `json:"top5"`
	ScannedAt      string             `json:"scannedAt"`
}

// WithoutImage returns a copy safe for list and submission responses
func (s ScanRecord) WithoutImage() ScanRecord {
	s.ImageBase64 = ""
	return s
}

// ForecastDay is a single day of the 7-day risk forecast
type ForecastDay struct {
	Day       int       `json:"day"`
	RiskScore float64   `json:"risk_score"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// ForecastResult is the predictor's forecast payload, stored verbatim
type ForecastResult struct {
	Forecast       []ForecastDay `json:"forecast"`
	PeakRiskDay    int           `json:"peak_risk_day"`
	MaxRiskLevel   RiskLevel     `json:"max_risk_level"`
	MaxRiskScore   float64       `json:"max_risk_score"`
	Recommendation string        `json:"recommendation"`
}

// ForecastRecord is a persisted 7-day forecast tagged with its owner
type ForecastRecord struct {
	ForecastID string         `json:"forecastId"`
	FarmerID   string         `json:"farmerId"`
	DistrictID int            `json:"districtId,omitempty"`
	Result     ForecastResult `json:"forecast"`
	CreatedAt  string         `json:"createdAt"`
}
