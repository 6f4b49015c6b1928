package domain

// RiskLevel is the ordinal disease-risk classification shared by scans and forecasts
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Presentation color tokens per risk level, matching the dashboard palette
const (
	ColorHigh   = "#f87171"
	ColorMedium = "#fbbf24"
	ColorLow    = "#4ade80"
)

// ClassifyRisk maps a risk score in [0,1] to its level and color token.
// Boundaries are inclusive to the higher band: 0.65 is HIGH, 0.35 is MEDIUM.
func ClassifyRisk(score float64) (RiskLevel, string) {
	switch {
	case score >= 0.65:
		return RiskHigh, ColorHigh
	case score >= 0.35:
		return RiskMedium, ColorMedium
	default:
		return RiskLow, ColorLow
	}
}

// IsValid reports whether the level is one of the known enumeration values.
// Predictor payloads carrying anything else are rejected rather than defaulted.
func (l RiskLevel) IsValid() bool {
	return l == RiskLow || l == RiskMedium || l == RiskHigh
}
