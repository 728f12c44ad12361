package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cemtutar/campus-parking/internal/modules/parking/service"
)

type stubDashboard struct {
	err error
}

func (s stubDashboard) Snapshot(ctx context.Context) (service.State, error) {
	return service.State{}, s.err
}

type stubMQTT bool

func (s stubMQTT) IsConnected() bool { return bool(s) }

func TestHealthz(t *testing.T) {
	tests := []struct {
		name       string
		dashboard  stubDashboard
		mqtt       MQTTStatus
		wantStatus int
		wantMQTT   string
	}{
		{"mqtt disabled", stubDashboard{}, nil, http.StatusOK, "disabled"},
		{"mqtt connected", stubDashboard{}, stubMQTT(true), http.StatusOK, "connected"},
		{"mqtt down is still healthy", stubDashboard{}, stubMQTT(false), http.StatusOK, "disconnected"},
		{"dashboard stopped", stubDashboard{err: service.ErrStopped}, nil, http.StatusServiceUnavailable, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := NewMux(tt.dashboard, "", tt.mqtt)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantMQTT == "" {
				return
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["status"] != "ok" || body["mqtt"] != tt.wantMQTT {
				t.Errorf("body = %v; want status ok, mqtt %s", body, tt.wantMQTT)
			}
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mux := NewMux(stubDashboard{}, "", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Error("metrics output missing default collectors")
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "dashboard.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	mux := NewMux(stubDashboard{}, dir, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/dashboard.js", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "console.log(1)" {
		t.Errorf("static = %d %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	NewMux(stubDashboard{}, "", nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/dashboard.js", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status without static dir = %d; want 404", rec.Code)
	}
}
