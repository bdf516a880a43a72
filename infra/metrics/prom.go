// Package metrics provides the Prometheus implementation of the core
// metrics recorder.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/vlo-krakow/timetable/core/metrics"
)

// PromRecorder counts pipeline events in Prometheus metrics.
type PromRecorder struct {
	fetches *prometheus.CounterVec
	cache   *prometheus.CounterVec
	drops   *prometheus.CounterVec
}

// NewPromRecorder registers the pipeline metrics on the default Prometheus
// registerer.
func NewPromRecorder() (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_upstream_fetches_total",
		Help: "Upstream schedule fetch attempts",
	}, []string{"status"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_cache_requests_total",
		Help: "Cache lookups per layer and outcome",
	}, []string{"layer", "outcome"})
	drops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_dropped_items_total",
		Help: "Raw items discarded during normalization",
	}, []string{"reason"})

	registered := make([]*prometheus.CounterVec, 0, 3)
	for _, c := range []*prometheus.CounterVec{fetches, cache, drops} {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			c = existing
		}
		registered = append(registered, c)
	}
	return &PromRecorder{fetches: registered[0], cache: registered[1], drops: registered[2]}, nil
}

// RecordFetch implements coremetrics.Recorder.
func (r *PromRecorder) RecordFetch(ok bool) {
	status := "error"
	if ok {
		status = "ok"
	}
	r.fetches.WithLabelValues(status).Inc()
}

// RecordCache implements coremetrics.Recorder.
func (r *PromRecorder) RecordCache(layer string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cache.WithLabelValues(layer, outcome).Inc()
}

// RecordDrop implements coremetrics.Recorder.
func (r *PromRecorder) RecordDrop(reason string) {
	r.drops.WithLabelValues(reason).Inc()
}

var _ coremetrics.Recorder = (*PromRecorder)(nil)

// StartPromServer serves the /metrics endpoint until the context is
// canceled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
