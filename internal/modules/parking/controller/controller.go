package controller

import (
	"context"
	"net/http"

	"github.com/cemtutar/campus-parking/internal/modules/parking/service"
	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
	"github.com/cemtutar/campus-parking/internal/modules/parking/views"
)

// Dashboard is the part of service.Service the handlers drive.
type Dashboard interface {
	Snapshot(ctx context.Context) (service.State, error)
	Load(ctx context.Context) error
	Register(ctx context.Context, form service.Form) error
	Occupy(ctx context.Context, spotID string) error
	Release(ctx context.Context, spotID string) error
	Delete(ctx context.Context, spotID string, confirm service.ConfirmFunc) error
	SetFilter(ctx context.Context, f types.Filter) error
	SelectLot(ctx context.Context, lotID string) error
	UpdateForm(ctx context.Context, lotID, spotNumber string) error
	UseSuggestion(ctx context.Context) error
	Place(ctx context.Context, lotID, spotNumber string, lat, lon float64) (types.Coordinate, error)
}

type ParkingController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type parkingControllerImpl struct {
	dashboard Dashboard
	mapConfig views.MapConfig
}

func NewParkingController(dashboard Dashboard, mapConfig views.MapConfig) ParkingController {
	return &parkingControllerImpl{dashboard: dashboard, mapConfig: mapConfig}
}

func (c *parkingControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /", c.handleDashboard)
	mux.HandleFunc("GET /partials/spots", c.handleSpotsPartial)

	mux.HandleFunc("GET /api/v1/spots", c.handleSpots)
	mux.HandleFunc("GET /api/v1/lots", c.handleLots)
	mux.HandleFunc("GET /api/v1/map", c.handleMap)

	mux.HandleFunc("POST /actions/refresh", c.handleRefresh)
	mux.HandleFunc("POST /actions/register", c.handleRegister)
	mux.HandleFunc("POST /actions/occupy", c.handleOccupy)
	mux.HandleFunc("POST /actions/release", c.handleRelease)
	mux.HandleFunc("POST /actions/delete", c.handleDelete)
	mux.HandleFunc("POST /actions/filter", c.handleFilter)
	mux.HandleFunc("POST /actions/select-lot", c.handleSelectLot)
	mux.HandleFunc("POST /actions/form", c.handleForm)
	mux.HandleFunc("POST /actions/use-suggestion", c.handleUseSuggestion)
	mux.HandleFunc("POST /actions/placement", c.handlePlacement)
}
