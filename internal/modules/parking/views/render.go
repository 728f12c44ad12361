package views

import (
	"errors"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

var dashboardTmpl *template.Template

var funcs = template.FuncMap{
	"coord": formatCoord,
	"lotOf": func(s types.ParkingSpot) string { return s.LotIDOrEmpty() },
}

// formatCoord prints an optional coordinate with 6 decimals, or "—".
func formatCoord(v *float64) string {
	if v == nil {
		return "—"
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

// loadTemplatesFromFS loads dashboard templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	tmpl, err := template.New("dashboard").Funcs(funcs).ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	dashboardTmpl = tmpl
	return nil
}

// LoadTemplates loads embedded dashboard templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// MapConfig is handed to the browser map widget.
type MapConfig struct {
	CenterLat   float64 `json:"centerLat"`
	CenterLon   float64 `json:"centerLon"`
	Zoom        int     `json:"zoom"`
	MinZoom     int     `json:"minZoom"`
	TileURL     string  `json:"tileUrl"`
	Attribution string  `json:"attribution"`
}

const (
	DefaultMinZoom     = 2
	DefaultTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "&copy; OpenStreetMap contributors"
)

// StatusOption is one entry of the status filter selector.
type StatusOption struct {
	Value    types.StatusFilter
	Label    string
	Selected bool
}

// DashboardData is the view model for the whole page.
type DashboardData struct {
	Spots      []types.ParkingSpot
	TotalSpots int
	Summaries  []types.LotSummary

	LotFilter     string
	StatusOptions []StatusOption

	FormLotID           string
	FormSpotNumber      string
	FormLat             *float64
	FormLon             *float64
	SuggestedSpotNumber string
	SuggestedSpotID     string

	Loading bool
	Error   string

	Map MapConfig
}

// StatusOptions lists the filter choices with current marked as selected.
func StatusOptions(current types.StatusFilter) []StatusOption {
	opts := []StatusOption{
		{Value: types.StatusFilterAll, Label: "All"},
		{Value: types.StatusFilterAvailable, Label: "Available"},
		{Value: types.StatusFilterOccupied, Label: "Occupied"},
	}
	for i := range opts {
		opts[i].Selected = opts[i].Value == current
	}
	return opts
}

func RenderDashboard(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// RenderSpotsPartial executes only the spots table into w.
func RenderSpotsPartial(w io.Writer, data *DashboardData) error {
	if dashboardTmpl == nil {
		return errors.New("dashboard template not loaded: call views.LoadTemplates during startup")
	}
	return dashboardTmpl.ExecuteTemplate(w, "partials/spots.html", data)
}
