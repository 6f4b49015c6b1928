package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/logger"
)

// DefaultMaxImageBytes caps uploaded scan images at 5 MiB
const DefaultMaxImageBytes = 5 << 20

// ScanService orchestrates a single disease scan: validate the upload, get a
// prediction, persist the record, bump the farmer's counter.
type ScanService struct {
	predictor     Predictor
	store         RecordStore
	log           *logger.Logger
	maxImageBytes int
}

// NewScanService creates a new scan service. A maxImageBytes of zero or less
// falls back to DefaultMaxImageBytes.
func NewScanService(predictor Predictor, store RecordStore, log *logger.Logger, maxImageBytes int) *ScanService {
	if maxImageBytes <= 0 {
		maxImageBytes = DefaultMaxImageBytes
	}
	return &ScanService{
		predictor:     predictor,
		store:         store,
		log:           log,
		maxImageBytes: maxImageBytes,
	}
}

// SubmitScan runs the full scan pipeline for an authenticated farmer. The
// returned record has the inline image stripped. The store write and the
// counter increment are not transactional: if the increment fails after the
// write succeeded, the scan is kept, the caller still gets a success and the
// inconsistency is logged for reconciliation.
func (s *ScanService) SubmitScan(ctx context.Context, farmerID string, image []byte, mimeType, cropType, fieldLocation string) (domain.ScanRecord, error) {
	if len(image) == 0 {
		return domain.ScanRecord{}, domain.Validationf("image file required")
	}
	if len(image) > s.maxImageBytes {
		return domain.ScanRecord{}, domain.Validationf("image exceeds %d byte limit", s.maxImageBytes)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return domain.ScanRecord{}, domain.Validationf("only images allowed")
	}

	prediction, err := s.predictor.PredictDisease(ctx, image, mimeType)
	if err != nil {
		return domain.ScanRecord{}, err
	}

	if cropType == "" {
		cropType = "unknown"
	}

	record := domain.ScanRecord{
		ScanID:         uuid.NewString(),
		FarmerID:       farmerID,
		CropType:       cropType,
		FieldLocation:  fieldLocation,
		ImageBase64:    fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image)),
		Disease:        prediction.Disease,
		Confidence:     prediction.Confidence,
		RiskLevel:      prediction.RiskLevel,
		RiskScore:      prediction.RiskScore,
		Recommendation: prediction.Recommendation,
		Top5:           prediction.Top5,
		ScannedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.store.CreateScan(ctx, record); err != nil {
		return domain.ScanRecord{}, fmt.Errorf("scan: failed to save record: %w", err)
	}

	if err := s.store.IncrementScanCount(ctx, farmerID); err != nil {
		// Record is committed, counter is behind. Report success anyway and
		// leave the undercount visible to operators.
		s.log.Error("scan counter increment failed, profile undercounts",
			"farmer_id", farmerID, "scan_id", record.ScanID, "err", err)
	}

	return record.WithoutImage(), nil
}

// History returns up to limit of the farmer's scans, newest first, images
// stripped. Limit defaults to 20 and is capped at 100.
func (s *ScanService) History(ctx context.Context, farmerID string, limit int) ([]domain.ScanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	scans, err := s.store.ScansByFarmer(ctx, farmerID, limit)
	if err != nil {
		return nil, fmt.Errorf("scan: failed to load history: %w", err)
	}
	return scans, nil
}

// Get returns a single scan including its inline image
func (s *ScanService) Get(ctx context.Context, scanID string) (domain.ScanRecord, error) {
	return s.store.GetScan(ctx, scanID)
}
