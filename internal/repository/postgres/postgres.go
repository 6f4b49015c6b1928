package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
)

// PostgresStore implements domain.RecordStore
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL record store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// InitSchema creates the tables if they do not exist yet
func (r *PostgresStore) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS farmers (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			email       TEXT NOT NULL,
			phone       TEXT NOT NULL DEFAULT '',
			village     TEXT NOT NULL DEFAULT '',
			district    TEXT NOT NULL DEFAULT '',
			state       TEXT NOT NULL DEFAULT '',
			total_scans INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS scans (
			scan_id        TEXT PRIMARY KEY,
			farmer_id      TEXT NOT NULL,
			crop_type      TEXT NOT NULL,
			field_location TEXT NOT NULL DEFAULT '',
			image_base64   TEXT NOT NULL,
			disease        TEXT NOT NULL,
			confidence     DOUBLE PRECISION NOT NULL,
			risk_level     TEXT NOT NULL,
			risk_score     DOUBLE PRECISION NOT NULL,
			recommendation TEXT NOT NULL,
			top5           JSONB NOT NULL,
			scanned_at     TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scans_farmer ON scans (farmer_id, scanned_at DESC);
		CREATE TABLE IF NOT EXISTS forecasts (
			forecast_id TEXT PRIMARY KEY,
			farmer_id   TEXT NOT NULL,
			district_id INTEGER,
			result      JSONB NOT NULL,
			created_at  TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_forecasts_district ON forecasts (district_id, created_at DESC);
	`
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to init schema: %w", err)
	}
	return nil
}

// CreateFarmer persists a new farmer profile
func (r *PostgresStore) CreateFarmer(ctx context.Context, p domain.FarmerProfile) error {
	query := `
		INSERT INTO farmers (id, name, email, phone, village, district, state, total_scans, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Email, p.Phone, p.Village, p.District, p.State, p.TotalScans, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to create farmer: %w", err)
	}
	return nil
}

// GetFarmer retrieves a farmer profile by id
func (r *PostgresStore) GetFarmer(ctx context.Context, farmerID string) (domain.FarmerProfile, error) {
	query := `
		SELECT id, name, email, phone, village, district, state, total_scans, created_at
		FROM farmers WHERE id = $1
	`
	var p domain.FarmerProfile
	err := r.pool.QueryRow(ctx, query, farmerID).Scan(
		&p.ID, &p.Name, &p.Email, &p.Phone, &p.Village, &p.District, &p.State, &p.TotalScans, &p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.FarmerProfile{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.FarmerProfile{}, fmt.Errorf("postgres: failed to get farmer: %w", err)
	}
	return p, nil
}

// IncrementScanCount bumps total_scans by one. A single UPDATE keeps
// concurrent increments lost-update free without a transaction.
func (r *PostgresStore) IncrementScanCount(ctx context.Context, farmerID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE farmers SET total_scans = total_scans + 1 WHERE id = $1`, farmerID)
	if err != nil {
		return fmt.Errorf("postgres: failed to increment scan count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateScan persists a scan record. The plain INSERT errors on a duplicate
// id rather than overwriting.
func (r *PostgresStore) CreateScan(ctx context.Context, s domain.ScanRecord) error {
	top5, err := json.Marshal(s.Top5)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode top5: %w", err)
	}

	query := `
		INSERT INTO scans (
			scan_id, farmer_id, crop_type, field_location, image_base64,
			disease, confidence, risk_level, risk_score, recommendation, top5, scanned_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.pool.Exec(ctx, query,
		s.ScanID, s.FarmerID, s.CropType, s.FieldLocation, s.ImageBase64,
		s.Disease, s.Confidence, string(s.RiskLevel), s.RiskScore, s.Recommendation, top5, s.ScannedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save scan: %w", err)
	}
	return nil
}

// GetScan retrieves a single scan including its inline image
func (r *PostgresStore) GetScan(ctx context.Context, scanID string) (domain.ScanRecord, error) {
	query := `
		SELECT scan_id, farmer_id, crop_type, field_location, image_base64,
			   disease, confidence, risk_level, risk_score, recommendation, top5, scanned_at
		FROM scans WHERE scan_id = $1
	`
	s, err := scanScanRow(r.pool.QueryRow(ctx, query, scanID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ScanRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ScanRecord{}, fmt.Errorf("postgres: failed to get scan: %w", err)
	}
	return s, nil
}

// ScansByFarmer returns up to limit scans, newest first, images stripped
func (r *PostgresStore) ScansByFarmer(ctx context.Context, farmerID string, limit int) ([]domain.ScanRecord, error) {
	query := `
		SELECT scan_id, farmer_id, crop_type, field_location, '' AS image_base64,
			   disease, confidence, risk_level, risk_score, recommendation, top5, scanned_at
		FROM scans
		WHERE farmer_id = $1
		ORDER BY scanned_at DESC
		LIMIT $2
	`
	return r.queryScans(ctx, query, farmerID, limit)
}

// AllScansByFarmer returns every scan for a farmer, images stripped.
// Unbounded; used only for the risk breakdown aggregation.
func (r *PostgresStore) AllScansByFarmer(ctx context.Context, farmerID string) ([]domain.ScanRecord, error) {
	query := `
		SELECT scan_id, farmer_id, crop_type, field_location, '' AS image_base64,
			   disease, confidence, risk_level, risk_score, recommendation, top5, scanned_at
		FROM scans
		WHERE farmer_id = $1
		ORDER BY scanned_at DESC
	`
	return r.queryScans(ctx, query, farmerID)
}

func (r *PostgresStore) queryScans(ctx context.Context, query string, args ...any) ([]domain.ScanRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query scans: %w", err)
	}
	defer rows.Close()

	var results []domain.ScanRecord
	for rows.Next() {
		s, err := scanScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan row: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read scans: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanScanRow(row rowScanner) (domain.ScanRecord, error) {
	var (
		s     domain.ScanRecord
		level string
		top5  []byte
	)
	err := row.Scan(
		&s.ScanID, &s.FarmerID, &s.CropType, &s.FieldLocation, &s.ImageBase64,
		&s.Disease, &s.Confidence, &level, &s.RiskScore, &s.Recommendation, &top5, &s.ScannedAt,
	)
	if err != nil {
		return domain.ScanRecord{}, err
	}
	s.RiskLevel = domain.RiskLevel(level)
	if err := json.Unmarshal(top5, &s.Top5); err != nil {
		return domain.ScanRecord{}, fmt.Errorf("decode top5: %w", err)
	}
	return s, nil
}

// CreateForecast persists a forecast record
func (r *PostgresStore) CreateForecast(ctx context.Context, f domain.ForecastRecord) error {
	result, err := json.Marshal(f.Result)
	if err != nil {
		return fmt.Errorf("postgres: failed to encode forecast: %w", err)
	}

	var districtID any
	if f.DistrictID != 0 {
		districtID = f.DistrictID
	}

	query := `
		INSERT INTO forecasts (forecast_id, farmer_id, district_id, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.pool.Exec(ctx, query, f.ForecastID, f.FarmerID, districtID, result, f.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: failed to save forecast: %w", err)
	}
	return nil
}

// LatestForecastByDistrict returns the most recent forecast for a district
func (r *PostgresStore) LatestForecastByDistrict(ctx context.Context, districtID int) (domain.ForecastRecord, error) {
	query := `
		SELECT forecast_id, farmer_id, COALESCE(district_id, 0), result, created_at
		FROM forecasts
		WHERE district_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		f      domain.ForecastRecord
		result []byte
	)
	err := r.pool.QueryRow(ctx, query, districtID).Scan(
		&f.ForecastID, &f.FarmerID, &f.DistrictID, &result, &f.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ForecastRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("postgres: failed to get latest forecast: %w", err)
	}
	if err := json.Unmarshal(result, &f.Result); err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("postgres: failed to decode forecast: %w", err)
	}
	return f, nil
}

// Health checks database connectivity
func (r *PostgresStore) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
