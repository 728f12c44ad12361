package service

import (
	"slices"

	"github.com/cemtutar/campus-parking/internal/modules/parking/lots"
	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

// Form is the new-spot form as last submitted or edited.
type Form struct {
	LotID      string
	SpotNumber string
	Lat        *float64
	Lon        *float64
}

// State is the whole dashboard. Spots is the source of truth; View,
// FilteredSpots and SuggestedSpotNumber are derived from it.
type State struct {
	Spots         []types.ParkingSpot
	View          types.LotView
	FilteredSpots []types.ParkingSpot
	Filter        types.Filter

	Form                Form
	SuggestedSpotNumber string

	Loading bool
	// Error is the single message shown to the user; "" means none.
	Error string

	// Placement is the one transient marker set by clicking the map.
	Placement *types.Coordinate
}

func newState() State {
	s := State{Filter: types.Filter{Status: types.StatusFilterAll}}
	s.recompute()
	return s
}

// SuggestedSpotID is the full id the suggestion would produce, or "".
func (s State) SuggestedSpotID() string {
	if s.SuggestedSpotNumber == "" {
		return ""
	}
	id, _ := lots.SuggestedSpotID(s.Form.LotID, s.SuggestedSpotNumber)
	return id
}

func (s *State) recompute() {
	s.View = lots.Build(s.Spots)
	s.refilter()
	s.resuggest()
}

func (s *State) refilter() {
	s.FilteredSpots = lots.FilterSpots(s.Spots, s.Filter)
}

func (s *State) resuggest() {
	n, ok := lots.SuggestSpotNumber(s.Form.LotID, s.Spots)
	if !ok {
		n = ""
	}
	s.SuggestedSpotNumber = n
}

// replaceSpot swaps in the record with the same spot id. The slice is
// rebuilt so earlier snapshots keep their contents.
func (s *State) replaceSpot(updated types.ParkingSpot) {
	next := make([]types.ParkingSpot, len(s.Spots))
	for i, spot := range s.Spots {
		if spot.SpotID == updated.SpotID {
			spot = updated
		}
		next[i] = spot
	}
	s.Spots = next
}

func (s *State) removeSpot(spotID string) {
	s.Spots = slices.DeleteFunc(slices.Clone(s.Spots), func(spot types.ParkingSpot) bool {
		return spot.SpotID == spotID
	})
}

func (s State) clone() State {
	out := s
	out.Spots = slices.Clone(s.Spots)
	out.FilteredSpots = slices.Clone(s.FilteredSpots)
	out.View.Summaries = slices.Clone(s.View.Summaries)
	out.View.Markers = slices.Clone(s.View.Markers)
	if s.Placement != nil {
		p := *s.Placement
		out.Placement = &p
	}
	return out
}
