// Package repositorytest provides an in-memory stand-in for the parking REST
// API, for tests of code that talks to it over HTTP.
package repositorytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

// API mimics the parking backend: spots keyed by id, 400 on a missing
// spotId, 404 on unknown ids.
type API struct {
	*httptest.Server

	mu    sync.Mutex
	spots map[string]types.ParkingSpot
	order []string
	fail  map[string]int
	calls map[string]int
}

// NewAPI starts the fake with the given spots. Close it when done.
func NewAPI(spots ...types.ParkingSpot) *API {
	a := &API{
		spots: make(map[string]types.ParkingSpot),
		fail:  make(map[string]int),
		calls: make(map[string]int),
	}
	for _, s := range spots {
		a.put(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /spots/list", a.handleList)
	mux.HandleFunc("POST /spots/register", a.handleRegister)
	mux.HandleFunc("POST /spots/occupy", a.statusHandler("occupy", types.StatusOccupied))
	mux.HandleFunc("POST /spots/release", a.statusHandler("release", types.StatusAvailable))
	mux.HandleFunc("DELETE /spots/delete", a.handleDelete)
	a.Server = httptest.NewServer(mux)
	return a
}

// FailNext makes the next call of op ("list", "register", "occupy",
// "release", "delete") answer with status.
func (a *API) FailNext(op string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail[op] = status
}

// Calls returns how many requests op has received.
func (a *API) Calls(op string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls[op]
}

func (a *API) Spot(id string) (types.ParkingSpot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.spots[id]
	return s, ok
}

func (a *API) put(s types.ParkingSpot) {
	if _, ok := a.spots[s.SpotID]; !ok {
		a.order = append(a.order, s.SpotID)
	}
	a.spots[s.SpotID] = s
}

// begin records the call and reports an injected failure, if any.
func (a *API) begin(w http.ResponseWriter, op string) bool {
	a.calls[op]++
	if status, ok := a.fail[op]; ok {
		delete(a.fail, op)
		writeJSON(w, status, map[string]string{"message": "injected failure"})
		return false
	}
	return true
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.begin(w, "list") {
		return
	}
	out := make([]types.ParkingSpot, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.spots[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.begin(w, "register") {
		return
	}
	var req types.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON body"})
		return
	}
	if req.SpotID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "spotId is required"})
		return
	}
	s := types.ParkingSpot{
		SpotID:      req.SpotID,
		Status:      types.StatusAvailable,
		LastUpdated: now(),
		LotID:       req.LotID,
		Lat:         req.Lat,
		Lon:         req.Lon,
	}
	a.put(s)
	writeJSON(w, http.StatusCreated, s)
}

func (a *API) statusHandler(op, status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if !a.begin(w, op) {
			return
		}
		s, ok := a.lookup(w, r)
		if !ok {
			return
		}
		s.Status = status
		s.LastUpdated = now()
		a.spots[s.SpotID] = s
		writeJSON(w, http.StatusOK, s)
	}
}

func (a *API) handleDelete(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.begin(w, "delete") {
		return
	}
	s, ok := a.lookup(w, r)
	if !ok {
		return
	}
	delete(a.spots, s.SpotID)
	a.order = slices.DeleteFunc(a.order, func(id string) bool { return id == s.SpotID })
	writeJSON(w, http.StatusOK, s)
}

func (a *API) lookup(w http.ResponseWriter, r *http.Request) (types.ParkingSpot, bool) {
	var req types.SpotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid JSON body"})
		return types.ParkingSpot{}, false
	}
	if req.SpotID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "spotId is required"})
		return types.ParkingSpot{}, false
	}
	s, ok := a.spots[req.SpotID]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": fmt.Sprintf("Spot %s not found", req.SpotID)})
		return types.ParkingSpot{}, false
	}
	return s, true
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
