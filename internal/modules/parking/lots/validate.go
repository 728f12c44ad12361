package lots

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

const (
	MsgLotRequired        = "Lot ID is required."
	MsgSpotNumberRequired = "Spot number is required."
	MsgSpotNumberFormat   = "Spot number must be 2–3 digits, e.g. 01, 12, 105."
)

var spotNumberRe = regexp.MustCompile(`^\d{2,3}$`)

// ValidationError is a local, pre-network registration failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Registration is a validated new spot ready to be sent to the API.
type Registration struct {
	SpotID string
	// LotID is the lot text as typed, trimmed.
	LotID string
}

// ValidateRegistration checks the form input and builds the final spot id.
func ValidateRegistration(lotRaw, spotNumberRaw string) (Registration, error) {
	lot := strings.TrimSpace(lotRaw)
	number := strings.TrimSpace(spotNumberRaw)

	if lot == "" {
		return Registration{}, &ValidationError{Field: "lot_id", Message: MsgLotRequired}
	}
	if number == "" {
		return Registration{}, &ValidationError{Field: "spot_number", Message: MsgSpotNumberRequired}
	}
	if !spotNumberRe.MatchString(number) {
		return Registration{}, &ValidationError{Field: "spot_number", Message: MsgSpotNumberFormat}
	}

	return Registration{
		SpotID: NormalizeLotForID(lot) + "-" + PadSpotNumber(number),
		LotID:  lot,
	}, nil
}

// MatchesFilter reports whether a spot is visible under f.
func MatchesFilter(spot types.ParkingSpot, f types.Filter) bool {
	lotFilter := strings.ToLower(strings.TrimSpace(f.LotID))
	if lotFilter != "" && !strings.Contains(strings.ToLower(spot.LotIDOrEmpty()), lotFilter) {
		return false
	}
	return f.Status == "" || f.Status == types.StatusFilterAll || string(f.Status) == spot.Status
}

// FilterSpots returns the spots matching f, in their original order.
func FilterSpots(spots []types.ParkingSpot, f types.Filter) []types.ParkingSpot {
	out := make([]types.ParkingSpot, 0, len(spots))
	for _, spot := range spots {
		if MatchesFilter(spot, f) {
			out = append(out, spot)
		}
	}
	return out
}

// LotFilterFor is the lot filter applied when a lot marker is clicked.
func LotFilterFor(lotID string) string {
	if lotID == types.UnassignedLotID {
		return ""
	}
	return lotID
}

// RoundCoordinate rounds to 6 decimal places, the precision stored for a new spot.
func RoundCoordinate(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 6, 64), 64)
	if err != nil {
		return v
	}
	return r
}
