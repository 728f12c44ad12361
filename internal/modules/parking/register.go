package parking

import (
	"net/http"

	"github.com/cemtutar/campus-parking/internal/config"
	"github.com/cemtutar/campus-parking/internal/modules/parking/controller"
	"github.com/cemtutar/campus-parking/internal/modules/parking/views"
)

func RegisterFeature(mux *http.ServeMux, dashboard controller.Dashboard, cfg config.Config) {
	parkingController := controller.NewParkingController(dashboard, MapConfig(cfg))
	parkingController.RegisterRoutes(mux)
}

// MapConfig is the browser map setup for cfg.
func MapConfig(cfg config.Config) views.MapConfig {
	return views.MapConfig{
		CenterLat:   cfg.MapCenterLat,
		CenterLon:   cfg.MapCenterLon,
		Zoom:        cfg.MapZoom,
		MinZoom:     views.DefaultMinZoom,
		TileURL:     views.DefaultTileURL,
		Attribution: views.DefaultAttribution,
	}
}
