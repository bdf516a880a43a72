package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/vlo-krakow/timetable/core/metrics"
)

func TestPromRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	r.RecordFetch(true)
	r.RecordFetch(true)
	r.RecordFetch(false)
	r.RecordCache(coremetrics.LayerRaw, true)
	r.RecordCache(coremetrics.LayerResult, false)
	r.RecordDrop(coremetrics.DropStartTime)

	if got := testutil.ToFloat64(r.fetches.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok fetches = %v", got)
	}
	if got := testutil.ToFloat64(r.fetches.WithLabelValues("error")); got != 1 {
		t.Errorf("failed fetches = %v", got)
	}
	if got := testutil.ToFloat64(r.cache.WithLabelValues(coremetrics.LayerRaw, "hit")); got != 1 {
		t.Errorf("raw hits = %v", got)
	}
	if got := testutil.ToFloat64(r.cache.WithLabelValues(coremetrics.LayerResult, "miss")); got != 1 {
		t.Errorf("result misses = %v", got)
	}
	if got := testutil.ToFloat64(r.drops.WithLabelValues(coremetrics.DropStartTime)); got != 1 {
		t.Errorf("drops = %v", got)
	}
}

func TestPromRecorderReregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	first.RecordFetch(true)
	second.RecordFetch(true)
	if got := testutil.ToFloat64(second.fetches.WithLabelValues("ok")); got != 2 {
		t.Errorf("recorders should share collectors, got %v", got)
	}
}
