package lots

import (
	"errors"
	"testing"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name    string
		lot     string
		number  string
		wantID  string
		wantLot string
		wantMsg string
	}{
		{name: "two digits padded", lot: "LOT A", number: "01", wantID: "LOT-A-001", wantLot: "LOT A"},
		{name: "three digits kept", lot: " LOT A ", number: "105", wantID: "LOT-A-105", wantLot: "LOT A"},
		{name: "number trimmed", lot: "B", number: " 12 ", wantID: "B-012", wantLot: "B"},
		{name: "missing lot", lot: "  ", number: "01", wantMsg: MsgLotRequired},
		{name: "missing number", lot: "A", number: " ", wantMsg: MsgSpotNumberRequired},
		{name: "one digit", lot: "A", number: "1", wantMsg: MsgSpotNumberFormat},
		{name: "four digits", lot: "A", number: "1234", wantMsg: MsgSpotNumberFormat},
		{name: "letters", lot: "A", number: "1a", wantMsg: MsgSpotNumberFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := ValidateRegistration(tt.lot, tt.number)
			if tt.wantMsg != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("err = %v; want *ValidationError", err)
				}
				if verr.Message != tt.wantMsg {
					t.Errorf("message = %q; want %q", verr.Message, tt.wantMsg)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateRegistration() = %v; want nil", err)
			}
			if reg.SpotID != tt.wantID {
				t.Errorf("SpotID = %q; want %q", reg.SpotID, tt.wantID)
			}
			if reg.LotID != tt.wantLot {
				t.Errorf("LotID = %q; want %q", reg.LotID, tt.wantLot)
			}
		})
	}
}

func TestFilterSpots(t *testing.T) {
	spots := []types.ParkingSpot{
		spot("A-1", types.StatusOccupied, "Lot A"),
		spot("A-2", types.StatusAvailable, "Lot A"),
		spot("B-1", types.StatusOccupied, "BETA"),
		spot("C-1", types.StatusOccupied, "Cedar"),
		spot("U-1", types.StatusOccupied, ""),
	}

	ids := func(in []types.ParkingSpot) []string {
		var out []string
		for _, s := range in {
			out = append(out, s.SpotID)
		}
		return out
	}

	t.Run("status and lot compose", func(t *testing.T) {
		got := ids(FilterSpots(spots, types.Filter{LotID: "a", Status: types.StatusFilterOccupied}))
		want := []string{"A-1", "B-1", "C-1"}
		if len(got) != len(want) {
			t.Fatalf("got %v; want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("got %v; want %v", got, want)
				break
			}
		}
	})

	t.Run("ALL with empty lot keeps everything", func(t *testing.T) {
		got := FilterSpots(spots, types.Filter{Status: types.StatusFilterAll})
		if len(got) != len(spots) {
			t.Errorf("len = %d; want %d", len(got), len(spots))
		}
	})

	t.Run("lot filter excludes spots without lot", func(t *testing.T) {
		got := ids(FilterSpots(spots, types.Filter{LotID: "  BETA ", Status: types.StatusFilterAll}))
		if len(got) != 1 || got[0] != "B-1" {
			t.Errorf("got %v; want [B-1]", got)
		}
	})

	t.Run("available only", func(t *testing.T) {
		got := ids(FilterSpots(spots, types.Filter{Status: types.StatusFilterAvailable}))
		if len(got) != 1 || got[0] != "A-2" {
			t.Errorf("got %v; want [A-2]", got)
		}
	})
}

func TestLotFilterFor(t *testing.T) {
	if got := LotFilterFor(types.UnassignedLotID); got != "" {
		t.Errorf("LotFilterFor(Unassigned) = %q; want empty", got)
	}
	if got := LotFilterFor("LOT A"); got != "LOT A" {
		t.Errorf("LotFilterFor(LOT A) = %q; want LOT A", got)
	}
}

func TestRoundCoordinate(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{28.06231234, 28.062312},
		{-82.4134567, -82.413457},
		{1, 1},
	}
	for _, tt := range tests {
		if got := RoundCoordinate(tt.in); got != tt.want {
			t.Errorf("RoundCoordinate(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
