package types

import "time"

const (
	StatusAvailable = "AVAILABLE"
	StatusOccupied  = "OCCUPIED"

	// UnassignedLotID groups spots that carry no lot id.
	UnassignedLotID = "Unassigned"
)

type ParkingSpot struct {
	SpotID      string   `json:"spotId"`
	Status      string   `json:"status"`
	LastUpdated string   `json:"lastUpdated"`
	LotID       *string  `json:"lotId,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
}

// LotIDOrEmpty returns the lot id, or "" when the spot has none.
func (s ParkingSpot) LotIDOrEmpty() string {
	if s.LotID == nil {
		return ""
	}
	return *s.LotID
}

type LotSummary struct {
	LotID     string   `json:"lotId"`
	Total     int      `json:"total"`
	Available int      `json:"available"`
	Occupied  int      `json:"occupied"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}

// LotMarker is a lot summary that is known to have a centroid.
type LotMarker struct {
	LotID     string  `json:"lotId"`
	Total     int     `json:"total"`
	Available int     `json:"available"`
	Occupied  int     `json:"occupied"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Fill      string  `json:"fill"`
	Popup     string  `json:"popup"`
}

type MapBounds struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// LatSpan is never 0 so a single point still yields a usable viewport.
func (b MapBounds) LatSpan() float64 {
	if span := b.MaxLat - b.MinLat; span != 0 {
		return span
	}
	return 1
}

func (b MapBounds) LonSpan() float64 {
	if span := b.MaxLon - b.MinLon; span != 0 {
		return span
	}
	return 1
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "ALL"
	StatusFilterAvailable StatusFilter = StatusAvailable
	StatusFilterOccupied  StatusFilter = StatusOccupied
)

// ParseStatusFilter accepts ALL, AVAILABLE or OCCUPIED. An empty string means ALL.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch StatusFilter(s) {
	case "", StatusFilterAll:
		return StatusFilterAll, true
	case StatusFilterAvailable, StatusFilterOccupied:
		return StatusFilter(s), true
	default:
		return StatusFilterAll, false
	}
}

type Filter struct {
	LotID  string       `json:"lotId"`
	Status StatusFilter `json:"status"`
}

// LotView is everything derived from the spot collection.
type LotView struct {
	Summaries []LotSummary `json:"summaries"`
	Markers   []LotMarker  `json:"markers"`
	Bounds    MapBounds    `json:"bounds"`
}

// RegisterRequest is the body of POST /spots/register.
type RegisterRequest struct {
	SpotID string   `json:"spotId"`
	LotID  *string  `json:"lotId,omitempty"`
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
}

// SpotRequest is the body of the occupy, release and delete calls.
type SpotRequest struct {
	SpotID string `json:"spotId"`
}

const (
	EventRegistered = "registered"
	EventOccupied   = "occupied"
	EventReleased   = "released"
	EventDeleted    = "deleted"
)

// SpotEvent is published after the API confirmed a change made from the dashboard.
type SpotEvent struct {
	Action    string      `json:"action"`
	SpotID    string      `json:"spotId"`
	Spot      ParkingSpot `json:"spot"`
	Timestamp time.Time   `json:"timestamp"`
}
