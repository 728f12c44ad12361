package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/cemtutar/campus-parking/internal/modules/parking/types"
)

func TestObserveAPICall(t *testing.T) {
	okBefore := testutil.ToFloat64(upstreamRequests.WithLabelValues("occupy", "ok"))
	errBefore := testutil.ToFloat64(upstreamRequests.WithLabelValues("occupy", "error"))

	ObserveAPICall("occupy", time.Now(), nil)
	ObserveAPICall("occupy", time.Now(), errors.New("boom"))
	ObserveAPICall("occupy", time.Now(), errors.New("boom"))

	if got := testutil.ToFloat64(upstreamRequests.WithLabelValues("occupy", "ok")) - okBefore; got != 1 {
		t.Errorf("ok delta = %v; want 1", got)
	}
	if got := testutil.ToFloat64(upstreamRequests.WithLabelValues("occupy", "error")) - errBefore; got != 2 {
		t.Errorf("error delta = %v; want 2", got)
	}
}

func TestObserveHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "POST /actions/occupy", "303"))
	ObserveHTTPRequest("POST", "POST /actions/occupy", 303)
	if got := testutil.ToFloat64(httpRequests.WithLabelValues("POST", "POST /actions/occupy", "303")) - before; got != 1 {
		t.Errorf("delta = %v; want 1", got)
	}
}

func TestSetLotView(t *testing.T) {
	SetLotView(3, types.LotView{Summaries: []types.LotSummary{
		{LotID: "LOT A", Total: 2, Available: 1, Occupied: 1},
		{LotID: types.UnassignedLotID, Total: 1, Available: 1},
	}})

	if got := testutil.ToFloat64(spotsTotal); got != 3 {
		t.Errorf("spots = %v; want 3", got)
	}
	if got := testutil.ToFloat64(lotSpots.WithLabelValues("LOT A", "occupied")); got != 1 {
		t.Errorf("LOT A occupied = %v; want 1", got)
	}

	// A lot that disappears from the view must not keep its old series.
	SetLotView(1, types.LotView{Summaries: []types.LotSummary{
		{LotID: types.UnassignedLotID, Total: 1, Available: 1},
	}})
	if n := testutil.CollectAndCount(lotSpots); n != 3 {
		t.Errorf("series = %d; want 3 for the single remaining lot", n)
	}
}
