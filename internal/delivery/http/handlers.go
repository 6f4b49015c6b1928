package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	scans     *service.ScanService
	forecasts *service.ForecastService
	profiles  *service.ProfileService
	districts *service.DistrictService
	predictor service.Predictor
	store     service.RecordStore
}

// NewHandler creates a new handler
func NewHandler(
	scans *service.ScanService,
	forecasts *service.ForecastService,
	profiles *service.ProfileService,
	districts *service.DistrictService,
	predictor service.Predictor,
	store service.RecordStore,
) *Handler {
	return &Handler{
		scans:     scans,
		forecasts: forecasts,
		profiles:  profiles,
		districts: districts,
		predictor: predictor,
		store:     store,
	}
}

// HealthCheck reports backend and predictor liveness. An unreachable
// predictor degrades the status to "partial" but is still a 200.
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx := c.Context()

	status := "ok"
	var mlStatus any
	if ml, err := h.predictor.Health(ctx); err != nil {
		status = "partial"
		mlStatus = "unreachable"
	} else {
		mlStatus = ml
	}

	if err := h.store.Health(ctx); err != nil {
		status = "partial"
	}

	return c.JSON(fiber.Map{
		"status":     status,
		"backend":    "running",
		"ml_service": mlStatus,
	})
}

// Register creates the farmer profile for the verified principal
func (h *Handler) Register(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Village  string `json:"village"`
		District string `json:"district"`
		State    string `json:"state"`
	}
	if err := c.BodyParser(&body); err != nil {
		return domain.Validationf("invalid request body")
	}

	profile, err := h.profiles.Register(c.Context(), domain.FarmerProfile{
		ID:       callerID(c),
		Name:     body.Name,
		Email:    body.Email,
		Phone:    body.Phone,
		Village:  body.Village,
		District: body.District,
		State:    body.State,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}

// GetProfile returns the caller's bare profile
func (h *Handler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.Context(), callerID(c))
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Farmer not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}

// GetFarmerStats returns the caller's profile with recent scans and the
// full risk breakdown
func (h *Handler) GetFarmerStats(c *fiber.Ctx) error {
	stats, err := h.profiles.ProfileWithStats(c.Context(), callerID(c))
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Farmer not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// SubmitScan accepts a multipart crop image, runs disease prediction and
// persists the scan. The response omits the inline image.
func (h *Handler) SubmitScan(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return domain.Validationf("image file required")
	}

	src, err := file.Open()
	if err != nil {
		return domain.Validationf("image file unreadable")
	}
	defer src.Close()

	image, err := io.ReadAll(src)
	if err != nil {
		return domain.Validationf("image file unreadable")
	}

	record, err := h.scans.SubmitScan(
		c.Context(),
		callerID(c),
		image,
		file.Header.Get(fiber.HeaderContentType),
		c.FormValue("cropType"),
		c.FormValue("fieldLocation"),
	)
	if err != nil {
		return err
	}

	_, color := domain.ClassifyRisk(record.RiskScore)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"data":      record,
		"riskColor": color,
	})
}

// GetScanHistory returns the caller's scan history, images stripped
func (h *Handler) GetScanHistory(c *fiber.Ctx) error {
	scans, err := h.scans.History(c.Context(), callerID(c), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	if scans == nil {
		scans = []domain.ScanRecord{}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(scans),
		"data":    scans,
	})
}

// GetScan returns a single scan including its image
func (h *Handler) GetScan(c *fiber.Ctx) error {
	record, err := h.scans.Get(c.Context(), c.Params("scanId"))
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Scan not found")
	}
	if err != nil {
		return err
	}
	_, color := domain.ClassifyRisk(record.RiskScore)
	return c.JSON(fiber.Map{
		"success":   true,
		"data":      record,
		"riskColor": color,
	})
}

// SubmitForecast runs a 7-day risk forecast and persists the result
func (h *Handler) SubmitForecast(c *fiber.Ctx) error {
	var req domain.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Validationf("invalid request body")
	}

	record, err := h.forecasts.SubmitForecast(c.Context(), callerID(c), req)
	if err != nil {
		return err
	}
	// Same score-to-color mapping as scans keeps presentation consistent
	// across the two result types.
	_, color := domain.ClassifyRisk(record.Result.MaxRiskScore)
	return c.JSON(fiber.Map{
		"success":       true,
		"data":          record,
		"peakRiskColor": color,
	})
}

// SubmitSatellite proxies the full satellite pipeline
func (h *Handler) SubmitSatellite(c *fiber.Ctx) error {
	var req domain.SatelliteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.Validationf("invalid request body")
	}

	result, err := h.forecasts.SubmitSatellite(c.Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// GetDistricts returns the full district reference table
func (h *Handler) GetDistricts(c *fiber.Ctx) error {
	districts := h.districts.All()
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(districts),
		"data":    districts,
	})
}

// GetNearestDistrict returns the district closest to the given coordinates
func (h *Handler) GetNearestDistrict(c *fiber.Ctx) error {
	if c.Query("lat") == "" || c.Query("lon") == "" {
		return domain.Validationf("lat and lon query parameters required")
	}
	lat := c.QueryFloat("lat")
	lon := c.QueryFloat("lon")
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.districts.Nearest(lat, lon),
	})
}

// GetDistrict returns a single district by id
func (h *Handler) GetDistrict(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return domain.Validationf("district id must be numeric")
	}

	district, err := h.districts.ByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "District not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    district,
	})
}

// GetDistrictRisk returns the latest stored forecast for a district
func (h *Handler) GetDistrictRisk(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return domain.Validationf("district id must be numeric")
	}

	record, err := h.districts.LatestRisk(c.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		if _, dErr := h.districts.ByID(id); dErr != nil {
			return fiber.NewError(fiber.StatusNotFound, "District not found")
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"districtId": id,
				"message":    "No forecast available yet",
			},
		})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    record,
	})
}
