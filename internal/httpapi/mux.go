package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMux registers the process-level routes: health, metrics and static
// assets. mqttStatus may be nil when event publishing is disabled.
func NewMux(dashboard dashboardProbe, staticDir string, mqttStatus MQTTStatus) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, dashboard, mqttStatus)
	mux.Handle("GET /metrics", promhttp.Handler())
	if staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	return mux
}
