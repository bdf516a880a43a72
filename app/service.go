// Package app wires the configured components into the timetable service.
package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/vlo-krakow/timetable/config"
	"github.com/vlo-krakow/timetable/core/cache"
	coremetrics "github.com/vlo-krakow/timetable/core/metrics"
	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/core/normalize"
	"github.com/vlo-krakow/timetable/core/resolve"
	"github.com/vlo-krakow/timetable/core/timetable"
	"github.com/vlo-krakow/timetable/infra/edupage"
	"github.com/vlo-krakow/timetable/infra/logger"
	"github.com/vlo-krakow/timetable/infra/metrics"
	"github.com/vlo-krakow/timetable/infra/store"
)

// Service bundles the timetable pipeline built from one configuration.
type Service struct {
	Timetables *timetable.Service

	log         logger.Logger
	closer      io.Closer
	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var rec coremetrics.Recorder = coremetrics.Nop{}
	if cfg.Metrics.PrometheusEnabled {
		promRec, err := metrics.NewPromRecorder()
		if err != nil {
			return nil, fmt.Errorf("prom recorder: %w", err)
		}
		rec = promRec
	}

	var (
		backend cache.Store
		closer  io.Closer
	)
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		redisStore, err := store.NewRedis(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		backend = redisStore
		closer = redisStore
	default:
		fileStore, err := store.NewFile(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		backend = fileStore
	}

	refresh := time.Duration(cfg.Overrides.RefreshMinutes) * time.Minute
	overrides := resolve.NewOverrides(cfg.Overrides.Dir, cfg.Overrides.TeacherFile, refresh, logger.New("overrides"))
	resolver := resolve.NewResolver(overrides, logger.New("resolver"))
	normalizer := normalize.New(resolver, rec, logger.New("normalizer"))

	client := edupage.NewClient(cfg.Edupage)
	fetcher := edupage.NewFetcher(
		client,
		backend,
		time.Duration(cfg.Cache.FutureTTLHours)*time.Hour,
		rec,
		logger.New("fetcher"),
	)
	tables := edupage.NewTables(client, time.Hour, logger.New("tables"))

	svc := timetable.NewService(
		fetcher,
		tables,
		normalizer,
		cfg.Cache.ResultCapacity,
		time.Duration(cfg.Cache.ResultTTLMinutes)*time.Minute,
		rec,
		logg,
	)

	return &Service{
		Timetables:  svc,
		log:         logg,
		closer:      closer,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Timetable returns the normalized timetable for one week and class.
func (s *Service) Timetable(ctx context.Context, date time.Time, class string, detail bool) (*model.Timetable, error) {
	return s.Timetables.Timetable(ctx, date, class, detail)
}

// Run blocks until the context is canceled, serving the metrics endpoint
// when enabled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases held resources.
func (s *Service) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
