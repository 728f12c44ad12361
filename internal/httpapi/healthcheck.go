package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cemtutar/campus-parking/internal/modules/parking/service"
	"github.com/cemtutar/campus-parking/internal/utils"
)

const healthcheckTimeout = 2 * time.Second

type dashboardProbe interface {
	Snapshot(ctx context.Context) (service.State, error)
}

// MQTTStatus reports the event publisher's broker connection.
type MQTTStatus interface {
	IsConnected() bool
}

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	dashboard  dashboardProbe
	mqttStatus MQTTStatus
}

func NewHealthchecker(dashboard dashboardProbe, mqttStatus MQTTStatus) healthchecker {
	return &healthcheckerImpl{dashboard: dashboard, mqttStatus: mqttStatus}
}

// handleHealthz fails only when the dashboard loop is gone. A broker outage
// is reported but does not make the process unhealthy.
func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthcheckTimeout)
	defer cancel()

	if _, err := h.dashboard.Snapshot(ctx); err != nil {
		slog.Error("failed to reach dashboard service", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "dashboard service not running")
		return
	}

	mqttState := "disabled"
	if h.mqttStatus != nil {
		mqttState = "disconnected"
		if h.mqttStatus.IsConnected() {
			mqttState = "connected"
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "mqtt": mqttState})
}

func registerHealthcheck(mux *http.ServeMux, dashboard dashboardProbe, mqttStatus MQTTStatus) {
	healthchecker := NewHealthchecker(dashboard, mqttStatus)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
