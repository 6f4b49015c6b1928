package domain

import "context"

// RecordStore defines durable persistence for farmers, scans and forecasts.
// This follows the Dependency Inversion Principle - domain defines the interface
type RecordStore interface {
	// CreateFarmer persists a new farmer profile; fails if the id exists
	CreateFarmer(ctx context.Context, profile FarmerProfile) error

	// GetFarmer retrieves a farmer profile; ErrNotFound when missing
	GetFarmer(ctx context.Context, farmerID string) (FarmerProfile, error)

	// IncrementScanCount atomically bumps a farmer's totalScans counter.
	// Concurrent increments for the same farmer must not lose updates.
	IncrementScanCount(ctx context.Context, farmerID string) error

	// CreateScan persists a scan record; fails if the id exists
	CreateScan(ctx context.Context, record ScanRecord) error

	// GetScan retrieves a single scan including its inline image
	GetScan(ctx context.Context, scanID string) (ScanRecord, error)

	// ScansByFarmer returns up to limit scans, newest first, images stripped
	ScansByFarmer(ctx context.Context, farmerID string, limit int) ([]ScanRecord, error)

	// AllScansByFarmer returns every scan for a farmer, images stripped.
	// Unbounded; used only for aggregation.
	AllScansByFarmer(ctx context.Context, farmerID string) ([]ScanRecord, error)

	// CreateForecast persists a forecast record; fails if the id exists
	CreateForecast(ctx context.Context, record ForecastRecord) error

	// LatestForecastByDistrict returns the most recent forecast stored for a
	// district; ErrNotFound when the district has none yet
	LatestForecastByDistrict(ctx context.Context, districtID int) (ForecastRecord, error)

	// Health checks store connectivity
	Health(ctx context.Context) error
}
