package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"github.com/cemtutar/campus-parking/internal/modules/parking/service"
	"github.com/cemtutar/campus-parking/internal/modules/parking/views"
	"github.com/cemtutar/campus-parking/internal/utils"
)

const msgUnavailable = "dashboard unavailable"

func (c *parkingControllerImpl) snapshot(w http.ResponseWriter, r *http.Request) (service.State, bool) {
	st, err := c.dashboard.Snapshot(r.Context())
	if err != nil {
		slog.Error("dashboard snapshot failed", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, msgUnavailable)
		return service.State{}, false
	}
	return st, true
}

// finishAction answers a form action: back to the page on success.
func finishAction(w http.ResponseWriter, r *http.Request, action string, err error) {
	if err != nil {
		slog.Error("dashboard action failed", "action", action, "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *parkingControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	st, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := views.RenderDashboard(&buf, newDashboardData(st, c.mapConfig)); err != nil {
		slog.Error("dashboard template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, &buf)
}

func (c *parkingControllerImpl) handleSpotsPartial(w http.ResponseWriter, r *http.Request) {
	st, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := views.RenderSpotsPartial(&buf, newDashboardData(st, c.mapConfig)); err != nil {
		slog.Error("spots partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	utils.WriteHTML(w, http.StatusOK, &buf)
}

func (c *parkingControllerImpl) handleSpots(w http.ResponseWriter, r *http.Request) {
	st, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, st.FilteredSpots)
}

func (c *parkingControllerImpl) handleLots(w http.ResponseWriter, r *http.Request) {
	st, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, st.View.Summaries)
}

func (c *parkingControllerImpl) handleMap(w http.ResponseWriter, r *http.Request) {
	st, ok := c.snapshot(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, newMapPayload(st, c.mapConfig))
}

func (c *parkingControllerImpl) handleRefresh(w http.ResponseWriter, r *http.Request) {
	finishAction(w, r, "refresh", c.dashboard.Load(r.Context()))
}

func (c *parkingControllerImpl) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	form, err := parseRegisterForm(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	finishAction(w, r, "register", c.dashboard.Register(r.Context(), form))
}

func (c *parkingControllerImpl) handleOccupy(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := parseSpotID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	finishAction(w, r, "occupy", c.dashboard.Occupy(r.Context(), id))
}

func (c *parkingControllerImpl) handleRelease(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := parseSpotID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	finishAction(w, r, "release", c.dashboard.Release(r.Context(), id))
}

// handleDelete only deletes when the browser confirmed with confirm=yes.
func (c *parkingControllerImpl) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := parseSpotID(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	confirmed := r.PostForm.Get("confirm") == "yes"
	err = c.dashboard.Delete(r.Context(), id, func(string) bool { return confirmed })
	finishAction(w, r, "delete", err)
}

func (c *parkingControllerImpl) handleFilter(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := parseFilterForm(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	finishAction(w, r, "filter", c.dashboard.SetFilter(r.Context(), f))
}

func (c *parkingControllerImpl) handleSelectLot(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	finishAction(w, r, "select-lot", c.dashboard.SelectLot(r.Context(), r.PostForm.Get("lot_id")))
}

func (c *parkingControllerImpl) handleForm(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := c.dashboard.UpdateForm(r.Context(), r.PostForm.Get("lot_id"), r.PostForm.Get("spot_number"))
	finishAction(w, r, "form", err)
}

func (c *parkingControllerImpl) handleUseSuggestion(w http.ResponseWriter, r *http.Request) {
	finishAction(w, r, "use-suggestion", c.dashboard.UseSuggestion(r.Context()))
}

// handlePlacement is called by the map script, so it answers with JSON.
func (c *parkingControllerImpl) handlePlacement(w http.ResponseWriter, r *http.Request) {
	if err := parseActionForm(w, r); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	lat, lon, err := parseLocation(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if lat == nil {
		utils.WriteError(w, http.StatusBadRequest, "missing 'lat' and 'lon'")
		return
	}
	coord, err := c.dashboard.Place(r.Context(), r.PostForm.Get("lot_id"), r.PostForm.Get("spot_number"), *lat, *lon)
	if err != nil {
		slog.Error("dashboard placement failed", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, msgUnavailable)
		return
	}
	utils.WriteJSON(w, http.StatusOK, coord)
}
