// Package lots derives the per-lot view of the dashboard from a flat list of
// parking spots. Everything here is a pure function of its input.
package lots

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

const (
	fillFull = "#ef4444"
	fillLow  = "#f59e0b"
	fillOK   = "#22c55e"

	// lowAvailability is the highest free count that still renders amber.
	lowAvailability = 3
)

type centroidAcc struct {
	latSum float64
	lonSum float64
	count  int
}

// GroupKey returns the lot a spot is aggregated under.
func GroupKey(spot types.ParkingSpot) string {
	if spot.LotID == nil || strings.TrimSpace(*spot.LotID) == "" {
		return types.UnassignedLotID
	}
	return *spot.LotID
}

// Summarize groups spots by lot and returns one summary per lot, sorted by lot id.
func Summarize(spots []types.ParkingSpot) []types.LotSummary {
	byLot := make(map[string]*types.LotSummary)
	locations := make(map[string]*centroidAcc)

	for _, spot := range spots {
		lotID := GroupKey(spot)
		summary, ok := byLot[lotID]
		if !ok {
			summary = &types.LotSummary{LotID: lotID}
			byLot[lotID] = summary
		}
		summary.Total++
		switch spot.Status {
		case types.StatusAvailable:
			summary.Available++
		case types.StatusOccupied:
			summary.Occupied++
		}

		if spot.Lat != nil && spot.Lon != nil {
			acc, ok := locations[lotID]
			if !ok {
				acc = &centroidAcc{}
				locations[lotID] = acc
			}
			acc.latSum += *spot.Lat
			acc.lonSum += *spot.Lon
			acc.count++
		}
	}

	out := make([]types.LotSummary, 0, len(byLot))
	for lotID, summary := range byLot {
		if acc, ok := locations[lotID]; ok && acc.count > 0 {
			lat := acc.latSum / float64(acc.count)
			lon := acc.lonSum / float64(acc.count)
			summary.Lat = &lat
			summary.Lon = &lon
		}
		out = append(out, *summary)
	}
	sortByLotID(out)
	return out
}

func sortByLotID(summaries []types.LotSummary) {
	// Collator keeps internal buffers; one per call.
	c := collate.New(language.Und)
	slices.SortFunc(summaries, func(a, b types.LotSummary) int {
		if r := c.CompareString(a.LotID, b.LotID); r != 0 {
			return r
		}
		return strings.Compare(a.LotID, b.LotID)
	})
}

// MarkerFill picks the marker colour for a lot from its free spot count.
func MarkerFill(available int) string {
	switch {
	case available == 0:
		return fillFull
	case available <= lowAvailability:
		return fillLow
	default:
		return fillOK
	}
}

// PopupText is the marker popup line, e.g. "3 free / 5 total".
func PopupText(available, total int) string {
	return fmt.Sprintf("%d free / %d total", available, total)
}

// Markers keeps the summaries that have a centroid, in the same order.
func Markers(summaries []types.LotSummary) []types.LotMarker {
	out := make([]types.LotMarker, 0, len(summaries))
	for _, s := range summaries {
		if s.Lat == nil || s.Lon == nil {
			continue
		}
		out = append(out, types.LotMarker{
			LotID:     s.LotID,
			Total:     s.Total,
			Available: s.Available,
			Occupied:  s.Occupied,
			Lat:       *s.Lat,
			Lon:       *s.Lon,
			Fill:      MarkerFill(s.Available),
			Popup:     PopupText(s.Available, s.Total),
		})
	}
	return out
}

// Bounds is the box around all markers, or the zero box when there are none.
func Bounds(markers []types.LotMarker) types.MapBounds {
	if len(markers) == 0 {
		return types.MapBounds{}
	}
	b := types.MapBounds{
		MinLat: markers[0].Lat,
		MaxLat: markers[0].Lat,
		MinLon: markers[0].Lon,
		MaxLon: markers[0].Lon,
	}
	for _, m := range markers[1:] {
		b.MinLat = min(b.MinLat, m.Lat)
		b.MaxLat = max(b.MaxLat, m.Lat)
		b.MinLon = min(b.MinLon, m.Lon)
		b.MaxLon = max(b.MaxLon, m.Lon)
	}
	return b
}

// Build recomputes the whole lot view from the spot collection.
func Build(spots []types.ParkingSpot) types.LotView {
	summaries := Summarize(spots)
	markers := Markers(summaries)
	return types.LotView{
		Summaries: summaries,
		Markers:   markers,
		Bounds:    Bounds(markers),
	}
}
