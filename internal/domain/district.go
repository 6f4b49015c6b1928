package domain

// DistrictReference is a static lookup row for a monitored district.
// BBox order is [lon_min, lat_min, lon_max, lat_max].
type DistrictReference struct {
	ID   int       `json:"id"`
	Name string    `json:"name"`
	BBox []float64 `json:"bbox"`
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Crop string    `json:"crop"`
}

// Districts is the seed reference table. Read-only; never mutated at runtime.
var Districts = []DistrictReference{
	{ID: 1, Name: "Nashik", BBox: []float64{73.6, 19.9, 74.2, 20.4}, Lat: 20.0, Lon: 73.8, Crop: "Wheat, Onion"},
	{ID: 2, Name: "Pune", BBox: []float64{73.7, 18.4, 74.0, 18.7}, Lat: 18.5, Lon: 73.9, Crop: "Sugarcane"},
	{ID: 3, Name: "Nagpur", BBox: []float64{78.9, 21.0, 79.3, 21.3}, Lat: 21.1, Lon: 79.1, Crop: "Orange, Soybean"},
	{ID: 4, Name: "Solapur", BBox: []float64{75.7, 17.5, 76.1, 17.9}, Lat: 17.7, Lon: 75.9, Crop: "Soybean, Jowar"},
	{ID: 5, Name: "Amravati", BBox: []float64{77.6, 20.8, 77.9, 21.1}, Lat: 20.9, Lon: 77.8, Crop: "Cotton, Soybean"},
	{ID: 6, Name: "Aurangabad", BBox: []float64{75.2, 19.7, 75.5, 20.0}, Lat: 19.9, Lon: 75.3, Crop: "Cotton, Soybean"},
	{ID: 7, Name: "Latur", BBox: []float64{76.4, 18.2, 76.7, 18.5}, Lat: 18.4, Lon: 76.5, Crop: "Soybean, Tur"},
	{ID: 8, Name: "Kolhapur", BBox: []float64{74.1, 16.5, 74.4, 16.8}, Lat: 16.7, Lon: 74.2, Crop: "Sugarcane, Rice"},
}
