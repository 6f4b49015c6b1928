package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"syscall"
	"time"

	"github.com/Mayank-Ninawe/krishisat-ai/internal/domain"
)

// Timeout tiers per call type. Image inference is the slowest path.
const (
	diseaseTimeout  = 30 * time.Second
	forecastTimeout = 15 * time.Second
	fullTimeout     = 30 * time.Second
	healthTimeout   = 5 * time.Second
)

// PredictorClient handles communication with the Python ML service. It does
// not retry; it classifies failures and enforces per-call timeouts, nothing
// more. Callers decide whether to retry.
type PredictorClient struct {
	serviceURL string
	httpClient *http.Client
}

// NewPredictorClient creates a new predictor client
func NewPredictorClient(serviceURL string) *PredictorClient {
	return &PredictorClient{
		serviceURL: serviceURL,
		httpClient: &http.Client{},
	}
}

// PredictDisease uploads an image for classification via multipart form
func (c *PredictorClient) PredictDisease(ctx context.Context, image []byte, mimeType string) (domain.DiseasePrediction, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="crop.jpg"`)
	header.Set("Content-Type", mimeType)
	part, err := form.CreatePart(header)
	if err != nil {
		return domain.DiseasePrediction{}, fmt.Errorf("predictor: failed to build form: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return domain.DiseasePrediction{}, fmt.Errorf("predictor: failed to write form: %w", err)
	}
	if err := form.Close(); err != nil {
		return domain.DiseasePrediction{}, fmt.Errorf("predictor: failed to close form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, diseaseTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+"/predict/disease", &body)
	if err != nil {
		return domain.DiseasePrediction{}, fmt.Errorf("predictor: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var out struct {
		Data domain.DiseasePrediction `json:"data"`
	}
	if err := c.do(req, &out); err != nil {
		return domain.DiseasePrediction{}, err
	}
	if !out.Data.RiskLevel.IsValid() {
		return domain.DiseasePrediction{}, &domain.PredictorRejectedError{
			Detail: fmt.Sprintf("unknown risk level %q", out.Data.RiskLevel),
		}
	}
	return out.Data, nil
}

// PredictForecast requests a 7-day risk forecast from an NDVI series plus
// weather drivers. Rejects locally when the series has fewer than 7 points.
func (c *PredictorClient) PredictForecast(ctx context.Context, series []float64, weather domain.Weather, districtID int) (domain.ForecastResult, error) {
	if len(series) < 7 {
		return domain.ForecastResult{}, domain.Validationf("minimum 7 NDVI values required, got %d", len(series))
	}

	payload := domain.ForecastRequest{NDVISeries: series, Weather: weather, DistrictID: districtID}
	var out struct {
		Data domain.ForecastResult `json:"data"`
	}
	if err := c.postJSON(ctx, "/predict/forecast", forecastTimeout, payload, &out); err != nil {
		return domain.ForecastResult{}, err
	}
	if !out.Data.MaxRiskLevel.IsValid() {
		return domain.ForecastResult{}, &domain.PredictorRejectedError{
			Detail: fmt.Sprintf("unknown risk level %q", out.Data.MaxRiskLevel),
		}
	}
	for _, day := range out.Data.Forecast {
		if !day.RiskLevel.IsValid() {
			return domain.ForecastResult{}, &domain.PredictorRejectedError{
				Detail: fmt.Sprintf("unknown risk level %q on day %d", day.RiskLevel, day.Day),
			}
		}
	}
	return out.Data, nil
}

// PredictFull runs the satellite pipeline end to end. The result is opaque and
// passed through unmodified. Rejects locally unless bbox has exactly 4 values.
func (c *PredictorClient) PredictFull(ctx context.Context, req domain.SatelliteRequest) (json.RawMessage, error) {
	if len(req.BBox) != 4 {
		return nil, domain.Validationf("bbox [lon_min, lat_min, lon_max, lat_max] required")
	}

	var out json.RawMessage
	if err := c.postJSON(ctx, "/predict/full", fullTimeout, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Health checks ML service liveness with a short timeout
func (c *PredictorClient) Health(ctx context.Context) (domain.PredictorHealth, error) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serviceURL+"/health", nil)
	if err != nil {
		return domain.PredictorHealth{}, fmt.Errorf("predictor: failed to create health request: %w", err)
	}

	var out domain.PredictorHealth
	if err := c.do(req, &out); err != nil {
		return domain.PredictorHealth{}, err
	}
	return out, nil
}

// postJSON sends a JSON request and decodes the JSON response into out
func (c *PredictorClient) postJSON(ctx context.Context, path string, timeout time.Duration, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("predictor: failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serviceURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("predictor: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// do executes the request, classifies failures and decodes a 2xx body into out
func (c *PredictorClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyTransportErr(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.PredictorRejectedError{Detail: readErrorDetail(resp)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.PredictorRejectedError{Detail: "malformed response", Err: err}
	}
	return nil
}

// classifyTransportErr separates "service not up yet" from every other failure.
// Connection refused and DNS resolution failures mean the predictor is absent
// or still starting; anything else (timeouts included) is a failed prediction.
func classifyTransportErr(err error) error {
	var dnsErr *net.DNSError
	if errors.Is(err, syscall.ECONNREFUSED) || errors.As(err, &dnsErr) {
		return domain.ErrPredictorUnavailable
	}
	return &domain.PredictorRejectedError{Err: err}
}

// readErrorDetail extracts the FastAPI-style {"detail": ...} error body
func readErrorDetail(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	var body struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Detail != nil {
		if s, ok := body.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(body.Detail); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("status %d", resp.StatusCode)
}
