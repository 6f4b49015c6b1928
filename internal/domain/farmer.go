package domain

// FarmerProfile is the registered user record. Identity comes from the external
// identity provider; this backend never issues credentials.
type FarmerProfile struct {
	ID         string `json:"uid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Village    string `json:"village,omitempty"`
	District   string `json:"district,omitempty"`
	State      string `json:"state,omitempty"`
	TotalScans int    `json:"totalScans"`
	CreatedAt  string `json:"createdAt"`
}

// RiskBreakdown counts a farmer's historical scans by risk level
type RiskBreakdown struct {
	High   int `json:"HIGH"`
	Medium int `json:"MEDIUM"`
	Low    int `json:"LOW"`
}

// Total returns the sum across all levels
func (b RiskBreakdown) Total() int {
	return b.High + b.Medium + b.Low
}

// FarmerStats is the aggregated profile view: the profile itself, the five most
// recent scans (image stripped) and an exact risk breakdown recomputed from all
// of the farmer's scan records on every read.
type FarmerStats struct {
	FarmerProfile
	RecentScans   []ScanRecord  `json:"recentScans"`
	RiskBreakdown RiskBreakdown `json:"riskBreakdown"`
}
