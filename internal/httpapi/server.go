package httpapi

import (
	"net/http"
	"time"

	"github.com/cemtutar/campus-parking/internal/config"
)

const serviceName = "campus-parking-dashboard"

func NewServer(cfg config.Config, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           Wrap(serviceName, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Actions wait on the parking API, so leave room beyond its timeout.
		WriteTimeout: cfg.APITimeout*2 + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
