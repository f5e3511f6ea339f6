package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters_IncrementObservably(t *testing.T) {
	before := testutil.ToFloat64(Reads)
	Reads.Inc()
	if got := testutil.ToFloat64(Reads); got != before+1 {
		t.Fatalf("Reads = %v, want %v", got, before+1)
	}
}

func TestGauge_TracksActiveConsumers(t *testing.T) {
	before := testutil.ToFloat64(RopeConsumersActive)
	RopeConsumersActive.Inc()
	RopeConsumersActive.Inc()
	RopeConsumersActive.Dec()
	if got := testutil.ToFloat64(RopeConsumersActive); got != before+1 {
		t.Fatalf("RopeConsumersActive = %v, want %v", got, before+1)
	}
}
