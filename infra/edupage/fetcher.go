package edupage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vlo-krakow/timetable/core/cache"
	"github.com/vlo-krakow/timetable/core/metrics"
	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/infra/logger"
	"github.com/vlo-krakow/timetable/internal/dateutil"
)

// WeekClient fetches one class's schedule items for the week of a date.
type WeekClient interface {
	FetchWeek(ctx context.Context, date time.Time, classID string) ([]model.RawItem, error)
}

// Fetcher serves raw schedule weeks through the durable cache. Weeks for
// future dates expire after a short TTL (they are still being revised
// upstream); past weeks are settled and kept permanently.
type Fetcher struct {
	client WeekClient
	cache  *cache.Durable
	policy cache.SchedulePolicy
	rec    metrics.Recorder
	log    logger.Logger
}

// NewFetcher creates a Fetcher over the given client and durable store.
func NewFetcher(client WeekClient, store cache.Store, futureTTL time.Duration, rec metrics.Recorder, log logger.Logger) *Fetcher {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Fetcher{
		client: client,
		cache:  cache.NewDurable(store, log),
		policy: cache.SchedulePolicy{FutureTTL: futureTTL},
		rec:    rec,
		log:    log,
	}
}

// Fetch returns the raw items for the week of date, possibly empty. Upstream
// failures are logged and degrade to an empty week; they are never cached
// and never propagate as errors.
func (f *Fetcher) Fetch(ctx context.Context, date time.Time, classID string) []model.RawItem {
	key := date.Format(dateutil.Format) + "/" + classID
	missed := false
	data, err := f.cache.Get(ctx, key, f.policy.TTL(date), func(ctx context.Context) ([]byte, error) {
		missed = true
		items, err := f.client.FetchWeek(ctx, date, classID)
		f.rec.RecordFetch(err == nil)
		if err != nil {
			return nil, err
		}
		return json.Marshal(items)
	})
	f.rec.RecordCache(metrics.LayerRaw, !missed)
	if err != nil {
		f.log.Warnw("upstream fetch failed", map[string]any{
			"date":  date.Format(dateutil.Format),
			"class": classID,
			"error": err.Error(),
		})
		return nil
	}
	var items []model.RawItem
	if err := json.Unmarshal(data, &items); err != nil {
		f.log.Warnf("corrupt cache entry %s: %v", key, err)
		if ierr := f.cache.Invalidate(ctx, key); ierr != nil {
			f.log.Warnf("invalidate %s: %v", key, ierr)
		}
		return nil
	}
	return items
}
