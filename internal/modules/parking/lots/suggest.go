package lots

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

// NormalizeLotForID turns free-text lot input into the token used in spot ids:
// trimmed, with every whitespace run replaced by a single hyphen.
func NormalizeLotForID(lot string) string {
	return strings.Join(strings.Fields(lot), "-")
}

// PadSpotNumber left-pads n with zeros to at least three digits.
func PadSpotNumber(n string) string {
	if len(n) >= 3 {
		return n
	}
	return strings.Repeat("0", 3-len(n)) + n
}

// SuggestSpotNumber returns the next free number for the lot typed by the
// user, e.g. "003" when LOT-A-001 and LOT-A-002 exist. ok is false when the
// lot text normalizes to nothing.
func SuggestSpotNumber(lot string, spots []types.ParkingSpot) (number string, ok bool) {
	base := NormalizeLotForID(lot)
	if base == "" {
		return "", false
	}
	pattern := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(base) + `-(\d{2,})$`)

	var highest int64
	for _, spot := range spots {
		if spot.LotIDOrEmpty() == "" || spot.SpotID == "" {
			continue
		}
		m := pattern.FindStringSubmatch(spot.SpotID)
		if m == nil {
			continue
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return fmt.Sprintf("%03d", highest+1), true
}

// SuggestedSpotID joins the normalized lot token and a suggested number.
func SuggestedSpotID(lot, number string) (string, bool) {
	base := NormalizeLotForID(lot)
	if base == "" || number == "" {
		return "", false
	}
	return base + "-" + number, true
}
