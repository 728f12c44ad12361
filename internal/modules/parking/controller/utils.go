package controller

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/cemtutar/campus-parking/internal/modules/parking/service"
	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
	"github.com/cemtutar/campus-parking/internal/modules/parking/views"
)

// maxFormBytes bounds every action form.
const maxFormBytes = 16 << 10

// mapPayload is the body of GET /api/v1/map.
type mapPayload struct {
	Map       views.MapConfig   `json:"map"`
	Markers   []types.LotMarker `json:"markers"`
	Bounds    types.MapBounds   `json:"bounds"`
	Placement *types.Coordinate `json:"placement"`
}

func parseActionForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return errors.New("invalid form body")
	}
	return nil
}

func parseSpotID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.PostForm.Get("spot_id"))
	if id == "" {
		return "", errors.New("missing 'spot_id'")
	}
	return id, nil
}

func parseFilterForm(r *http.Request) (types.Filter, error) {
	status, ok := types.ParseStatusFilter(strings.TrimSpace(r.PostForm.Get("status")))
	if !ok {
		return types.Filter{}, errors.New("invalid 'status' (expected ALL, AVAILABLE or OCCUPIED)")
	}
	return types.Filter{LotID: r.PostForm.Get("lot_id"), Status: status}, nil
}

// parseCoord reads a coordinate field. An empty field yields nil.
func parseCoord(r *http.Request, name string, limit float64) (*float64, error) {
	s := strings.TrimSpace(r.PostForm.Get(name))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errors.New("invalid '" + name + "' (expected number)")
	}
	if v < -limit || v > limit {
		return nil, errors.New("'" + name + "' out of range")
	}
	return &v, nil
}

// parseLocation reads the optional lat/lon pair of a form. Either both are
// set or neither.
func parseLocation(r *http.Request) (lat, lon *float64, err error) {
	lat, err = parseCoord(r, "lat", 90)
	if err != nil {
		return nil, nil, err
	}
	lon, err = parseCoord(r, "lon", 180)
	if err != nil {
		return nil, nil, err
	}
	if (lat == nil) != (lon == nil) {
		return nil, nil, errors.New("'lat' and 'lon' must be provided together")
	}
	return lat, lon, nil
}

func parseRegisterForm(r *http.Request) (service.Form, error) {
	lat, lon, err := parseLocation(r)
	if err != nil {
		return service.Form{}, err
	}
	return service.Form{
		LotID:      r.PostForm.Get("lot_id"),
		SpotNumber: r.PostForm.Get("spot_number"),
		Lat:        lat,
		Lon:        lon,
	}, nil
}

func newDashboardData(st service.State, mapConfig views.MapConfig) *views.DashboardData {
	return &views.DashboardData{
		Spots:               st.FilteredSpots,
		TotalSpots:          len(st.Spots),
		Summaries:           st.View.Summaries,
		LotFilter:           st.Filter.LotID,
		StatusOptions:       views.StatusOptions(st.Filter.Status),
		FormLotID:           st.Form.LotID,
		FormSpotNumber:      st.Form.SpotNumber,
		FormLat:             st.Form.Lat,
		FormLon:             st.Form.Lon,
		SuggestedSpotNumber: st.SuggestedSpotNumber,
		SuggestedSpotID:     st.SuggestedSpotID(),
		Loading:             st.Loading,
		Error:               st.Error,
		Map:                 mapConfig,
	}
}

func newMapPayload(st service.State, mapConfig views.MapConfig) mapPayload {
	markers := st.View.Markers
	if markers == nil {
		markers = []types.LotMarker{}
	}
	return mapPayload{
		Map:       mapConfig,
		Markers:   markers,
		Bounds:    st.View.Bounds,
		Placement: st.Placement,
	}
}
