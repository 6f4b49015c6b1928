package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/logger"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/repository/postgres"
	"github.com/Mayank-Ninawe/krishisat-ai/internal/service"
)

const testSecret = "test-secret"

// stubPredictor satisfies service.Predictor with canned results
type stubPredictor struct {
	disease      domain.DiseasePrediction
	forecast     domain.ForecastResult
	err          error
	lastMimeType string
}

func (s *stubPredictor) PredictDisease(ctx context.Context, image []byte, mimeType string) (domain.DiseasePrediction, error) {
	s.lastMimeType = mimeType
	if s.err != nil {
		return domain.DiseasePrediction{}, s.err
	}
	return s.disease, nil
}

func (s *stubPredictor) PredictForecast(ctx context.Context, series []float64, weather domain.Weather, districtID int) (domain.ForecastResult, error) {
	if s.err != nil {
		return domain.ForecastResult{}, s.err
	}
	return s.forecast, nil
}

func (s *stubPredictor) PredictFull(ctx context.Context, req domain.SatelliteRequest) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{"ok":true}`), nil
}

func (s *stubPredictor) Health(ctx context.Context) (domain.PredictorHealth, error) {
	if s.err != nil {
		return domain.PredictorHealth{}, s.err
	}
	return domain.PredictorHealth{Status: "ok"}, nil
}

func newTestApp(t *testing.T, predictor service.Predictor) (*fiber.App, *postgres.MemoryStore) {
	t.Helper()
	store := postgres.NewMemoryStore()
	log := logger.NewNop()

	signals := service.NewSignalGeneratorWithSource(func() float64 { return 0.5 })
	handler := NewHandler(
		service.NewScanService(predictor, store, log, 0),
		service.NewForecastService(predictor, store, signals, log),
		service.NewProfileService(store),
		service.NewDistrictService(store),
		predictor,
		store,
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: NewErrorHandler(log),
	})
	SetupRoutes(app, handler, NewAuthMiddleware(testSecret))
	return app, store
}

func bearerToken(t *testing.T, subject string, expiry time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(expiry).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestAuthRejections(t *testing.T) {
	app, _ := newTestApp(t, &stubPredictor{})

	tests := []struct {
		name   string
		header string
	}{
		{"no token", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", ""},
	}
	tests[3].header = bearerToken(t, "F1", -time.Hour)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/scans/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRegisterAndProfile(t *testing.T) {
	app, _ := newTestApp(t, &stubPredictor{})
	auth := bearerToken(t, "F1", time.Hour)

	body := `{"name":"Asha","email":"asha@example.com","village":"Ozar","district":"Nashik"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "F1", data["uid"])
	assert.Equal(t, "Asha", data["name"])
	assert.EqualValues(t, 0, data["totalScans"])
}

func scanMultipart(t *testing.T, withFile bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("cropType", "Tomato"))
	if withFile {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="leaf.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := form.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())
	return &buf, form.FormDataContentType()
}

func TestSubmitScanMissingImage(t *testing.T) {
	app, _ := newTestApp(t, &stubPredictor{})
	body, contentType := scanMultipart(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/scans/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "F1", time.Hour))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Equal(t, false, parsed["success"])
	assert.Contains(t, parsed["error"], "image file required")
}

func TestSubmitScanEndToEnd(t *testing.T) {
	predictor := &stubPredictor{disease: domain.DiseasePrediction{
		Disease:        "Tomato___Late_blight",
		Confidence:     92.3,
		RiskLevel:      domain.RiskHigh,
		RiskScore:      0.81,
		Recommendation: "Apply copper-based fungicide",
	}}
	app, store := newTestApp(t, predictor)
	auth := bearerToken(t, "F1", time.Hour)

	require.NoError(t, store.CreateFarmer(context.Background(), domain.FarmerProfile{
		ID: "F1", Name: "Asha", Email: "asha@example.com",
	}))

	body, contentType := scanMultipart(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/scans/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Equal(t, domain.ColorHigh, parsed["riskColor"])
	data := parsed["data"].(map[string]any)
	assert.Equal(t, "HIGH", data["riskLevel"])
	assert.NotContains(t, data, "imageBase64", "submission response omits the inline image")
	assert.Equal(t, "image/jpeg", predictor.lastMimeType, "file part content type reaches the predictor")

	// Farmer stats reflect the scan
	req = httptest.NewRequest(http.MethodGet, "/api/auth/farmer", nil)
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stats := decodeBody(t, resp)["data"].(map[string]any)
	assert.EqualValues(t, 1, stats["totalScans"])
	breakdown := stats["riskBreakdown"].(map[string]any)
	assert.EqualValues(t, 1, breakdown["HIGH"])
	assert.EqualValues(t, 0, breakdown["MEDIUM"])
	assert.EqualValues(t, 0, breakdown["LOW"])
}

func TestSubmitForecastShortSeries(t *testing.T) {
	app, _ := newTestApp(t, &stubPredictor{})

	body := `{"ndvi_series":[0.5,0.5,0.5,0.5,0.5,0.5],"weather":{"temp":30,"humidity":70}}`
	req := httptest.NewRequest(http.MethodPost, "/api/forecast/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "F1", time.Hour))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Contains(t, parsed["error"], "minimum 7 NDVI values")
}

func TestPredictorUnavailableMapsTo503(t *testing.T) {
	app, _ := newTestApp(t, &stubPredictor{err: domain.ErrPredictorUnavailable})

	body, contentType := scanMultipart(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/scans/", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "F1", time.Hour))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Contains(t, parsed["error"], "try again shortly")
}

func TestDistrictEndpoints(t *testing.T) {
	app, _ := newTestApp(t, &stubPredictor{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/districts/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	parsed := decodeBody(t, resp)
	assert.EqualValues(t, 8, parsed["count"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/districts/1", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	district := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "Nashik", district["name"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/districts/99", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Point near Pune's centroid resolves to Pune
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/districts/nearest?lat=18.52&lon=73.85", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	nearest := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "Pune", nearest["name"])

	// No forecast stored yet
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/districts/2/risk", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	risk := decodeBody(t, resp)["data"].(map[string]any)
	assert.Equal(t, "No forecast available yet", risk["message"])
}

func TestHealthDegradesToPartial(t *testing.T) {
	app, _ := newTestApp(t, &stubPredictor{err: domain.ErrPredictorUnavailable})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	parsed := decodeBody(t, resp)
	assert.Equal(t, "partial", parsed["status"])
	assert.Equal(t, "unreachable", parsed["ml_service"])
}
