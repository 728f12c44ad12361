package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/cemtutar/campus-parking/internal/metrics"
	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

const (
	OpList     = "list"
	OpRegister = "register"
	OpOccupy   = "occupy"
	OpRelease  = "release"
	OpDelete   = "delete"
)

// maxErrorBody caps how much of a failed response is kept for the error message.
const maxErrorBody = 4 << 10

// SpotRepository is the parking REST API as seen by the dashboard.
type SpotRepository interface {
	ListSpots(ctx context.Context) ([]types.ParkingSpot, error)
	RegisterSpot(ctx context.Context, req types.RegisterRequest) (types.ParkingSpot, error)
	OccupySpot(ctx context.Context, spotID string) (types.ParkingSpot, error)
	ReleaseSpot(ctx context.Context, spotID string) (types.ParkingSpot, error)
	DeleteSpot(ctx context.Context, spotID string) (types.ParkingSpot, error)
}

// APIError is a non-2xx answer from the parking API.
type APIError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("parking api %s: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("parking api %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the parking API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type repositoryImpl struct {
	baseURL string
	client  *http.Client
}

// NewRepository returns a client for the API at baseURL. Outgoing requests
// are traced through otelhttp and bounded by timeout.
func NewRepository(baseURL string, timeout time.Duration) SpotRepository {
	return NewRepositoryWithClient(baseURL, &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

func NewRepositoryWithClient(baseURL string, client *http.Client) SpotRepository {
	return &repositoryImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (r *repositoryImpl) ListSpots(ctx context.Context) ([]types.ParkingSpot, error) {
	var out []types.ParkingSpot
	if err := r.do(ctx, OpList, http.MethodGet, "/spots/list", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.ParkingSpot{}
	}
	return out, nil
}

func (r *repositoryImpl) RegisterSpot(ctx context.Context, req types.RegisterRequest) (types.ParkingSpot, error) {
	var out types.ParkingSpot
	err := r.do(ctx, OpRegister, http.MethodPost, "/spots/register", req, &out)
	return out, err
}

func (r *repositoryImpl) OccupySpot(ctx context.Context, spotID string) (types.ParkingSpot, error) {
	var out types.ParkingSpot
	err := r.do(ctx, OpOccupy, http.MethodPost, "/spots/occupy", types.SpotRequest{SpotID: spotID}, &out)
	return out, err
}

func (r *repositoryImpl) ReleaseSpot(ctx context.Context, spotID string) (types.ParkingSpot, error) {
	var out types.ParkingSpot
	err := r.do(ctx, OpRelease, http.MethodPost, "/spots/release", types.SpotRequest{SpotID: spotID}, &out)
	return out, err
}

func (r *repositoryImpl) DeleteSpot(ctx context.Context, spotID string) (types.ParkingSpot, error) {
	var out types.ParkingSpot
	err := r.do(ctx, OpDelete, http.MethodDelete, "/spots/delete", types.SpotRequest{SpotID: spotID}, &out)
	return out, err
}

func (r *repositoryImpl) do(ctx context.Context, op, method, path string, body any, out any) (err error) {
	started := time.Now()
	defer func() { metrics.ObserveAPICall(op, started, err) }()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("parking api %s: encode body: %w", op, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("parking api %s: new request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("parking api %s: %w", op, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Error("close parking api response", "operation", op, "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Operation: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parking api %s: decode response: %w", op, err)
	}
	return nil
}

// readErrorMessage extracts {"message": "..."} from an error body, falling
// back to the raw text.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(raw))
}
