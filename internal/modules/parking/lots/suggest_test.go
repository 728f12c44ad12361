package lots

import (
	"testing"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

func TestNormalizeLotForID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LOT A", "LOT-A"},
		{"  LOT   A  ", "LOT-A"},
		{"LOT\tA\nB", "LOT-A-B"},
		{"lot-a", "lot-a"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeLotForID(tt.in); got != tt.want {
			t.Errorf("NormalizeLotForID(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestSuggestSpotNumber(t *testing.T) {
	existing := []types.ParkingSpot{
		spot("LOT-A-001", types.StatusAvailable, "LOT A"),
		spot("LOT-A-002", types.StatusOccupied, "LOT A"),
	}

	t.Run("next after highest", func(t *testing.T) {
		got, ok := SuggestSpotNumber("LOT A", existing)
		if !ok || got != "003" {
			t.Fatalf("SuggestSpotNumber = (%q, %v); want (\"003\", true)", got, ok)
		}
		id, ok := SuggestedSpotID("LOT A", got)
		if !ok || id != "LOT-A-003" {
			t.Errorf("SuggestedSpotID = (%q, %v); want (\"LOT-A-003\", true)", id, ok)
		}
	})

	t.Run("no matches starts at 001", func(t *testing.T) {
		got, ok := SuggestSpotNumber("LOT B", existing)
		if !ok || got != "001" {
			t.Errorf("SuggestSpotNumber = (%q, %v); want (\"001\", true)", got, ok)
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, _ := SuggestSpotNumber("lot a", existing)
		if got != "003" {
			t.Errorf("SuggestSpotNumber = %q; want 003", got)
		}
	})

	t.Run("single digit suffix is ignored", func(t *testing.T) {
		spots := []types.ParkingSpot{spot("LOT-A-7", types.StatusAvailable, "LOT-A")}
		got, _ := SuggestSpotNumber("LOT-A", spots)
		if got != "001" {
			t.Errorf("SuggestSpotNumber = %q; want 001", got)
		}
	})

	t.Run("longer lot token does not match", func(t *testing.T) {
		spots := []types.ParkingSpot{spot("LOT-AB-05", types.StatusAvailable, "LOT AB")}
		got, _ := SuggestSpotNumber("LOT A", spots)
		if got != "001" {
			t.Errorf("SuggestSpotNumber = %q; want 001", got)
		}
	})

	t.Run("spots without lot are skipped", func(t *testing.T) {
		spots := []types.ParkingSpot{spot("LOT-A-050", types.StatusAvailable, "")}
		got, _ := SuggestSpotNumber("LOT A", spots)
		if got != "001" {
			t.Errorf("SuggestSpotNumber = %q; want 001", got)
		}
	})

	t.Run("grows past 999", func(t *testing.T) {
		spots := []types.ParkingSpot{spot("LOT-A-999", types.StatusAvailable, "LOT A")}
		got, _ := SuggestSpotNumber("LOT A", spots)
		if got != "1000" {
			t.Errorf("SuggestSpotNumber = %q; want 1000", got)
		}
	})

	t.Run("regex metacharacters in lot are literal", func(t *testing.T) {
		spots := []types.ParkingSpot{
			spot("P.1-010", types.StatusAvailable, "P.1"),
			spot("PX1-020", types.StatusAvailable, "PX1"),
		}
		got, _ := SuggestSpotNumber("P.1", spots)
		if got != "011" {
			t.Errorf("SuggestSpotNumber = %q; want 011", got)
		}
	})

	t.Run("blank lot has no suggestion", func(t *testing.T) {
		if got, ok := SuggestSpotNumber("   ", existing); ok {
			t.Errorf("SuggestSpotNumber = (%q, true); want no suggestion", got)
		}
		if _, ok := SuggestedSpotID("", "001"); ok {
			t.Error("SuggestedSpotID(\"\", \"001\") ok = true; want false")
		}
	})
}
