// Package timetable exposes the normalized weekly timetable behind the
// short-lived result cache.
package timetable

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/vlo-krakow/timetable/core/logger"
	"github.com/vlo-krakow/timetable/core/metrics"
	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/core/normalize"
	"github.com/vlo-krakow/timetable/internal/dateutil"
)

// ErrUnknownClass reports a class name the upstream tables do not list.
var ErrUnknownClass = errors.New("unknown class")

// RawFetcher serves raw schedule weeks, already durably cached.
type RawFetcher interface {
	Fetch(ctx context.Context, date time.Time, classID string) []model.RawItem
}

// TableProvider serves the upstream lookup tables.
type TableProvider interface {
	Table(ctx context.Context) (*model.Table, error)
}

// Service computes timetables through a bounded in-memory result cache.
// Entries live for a few minutes and are keyed by the exact
// (date, class, detail) triple; concurrent misses for one key coalesce into
// a single fetch+normalize pass. Cached timetables are shared between
// callers and must be treated as immutable.
type Service struct {
	fetcher    RawFetcher
	tables     TableProvider
	normalizer *normalize.Normalizer
	results    *expirable.LRU[string, *model.Timetable]
	group      singleflight.Group
	rec        metrics.Recorder
	log        logger.Logger
}

// NewService creates a Service with a result cache of the given capacity and
// entry lifetime.
func NewService(fetcher RawFetcher, tables TableProvider, normalizer *normalize.Normalizer, capacity int, ttl time.Duration, rec metrics.Recorder, log logger.Logger) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		fetcher:    fetcher,
		tables:     tables,
		normalizer: normalizer,
		results:    expirable.NewLRU[string, *model.Timetable](capacity, nil, ttl),
		rec:        rec,
		log:        log,
	}
}

// Timetable returns the normalized timetable for the week containing date,
// for the class with the given display name. detail controls whether lesson
// entries carry their raw upstream records.
func (s *Service) Timetable(ctx context.Context, date time.Time, class string, detail bool) (*model.Timetable, error) {
	key := resultKey(date, class, detail)
	if tt, ok := s.results.Get(key); ok {
		s.rec.RecordCache(metrics.LayerResult, true)
		return tt, nil
	}
	s.rec.RecordCache(metrics.LayerResult, false)

	v, err, _ := s.group.Do(key, func() (any, error) {
		if tt, ok := s.results.Get(key); ok {
			return tt, nil
		}
		tt, err := s.compute(ctx, date, class, detail)
		if err != nil {
			return nil, err
		}
		s.results.Add(key, tt)
		return tt, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Timetable), nil
}

func (s *Service) compute(ctx context.Context, date time.Time, class string, detail bool) (*model.Timetable, error) {
	table, err := s.tables.Table(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup tables: %w", err)
	}
	classID, ok := table.ClassID(class)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, class)
	}
	items := s.fetcher.Fetch(ctx, dateutil.Midnight(date), classID)
	return s.normalizer.Normalize(items, date, table, detail)
}

func resultKey(date time.Time, class string, detail bool) string {
	return date.Format(dateutil.Format) + "|" + class + "|" + strconv.FormatBool(detail)
}
