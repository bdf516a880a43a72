package edupage

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/infra/logger"
)

// TableClient fetches the upstream lookup tables.
type TableClient interface {
	FetchTable(ctx context.Context) (*model.Table, error)
}

type tableState struct {
	table    *model.Table
	loadedAt time.Time
}

// Tables caches the upstream lookup tables in process, refreshing at most
// once per interval. Like the override tables, refreshes swap the snapshot
// in; readers are never blocked, and a failed refresh keeps the previous
// snapshot.
type Tables struct {
	client   TableClient
	interval time.Duration
	log      logger.Logger
	now      func() time.Time

	mu    sync.Mutex
	state atomic.Pointer[tableState]
}

// NewTables creates a Tables cache over the given client.
func NewTables(client TableClient, interval time.Duration, log logger.Logger) *Tables {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Tables{client: client, interval: interval, log: log, now: time.Now}
}

// Table returns the current lookup tables, fetching them on first use. An
// error is returned only when no snapshot has ever been loaded.
func (t *Tables) Table(ctx context.Context) (*model.Table, error) {
	if st := t.state.Load(); st != nil && t.now().Sub(st.loadedAt) < t.interval {
		return st.table, nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state.Load()
	if st != nil && t.now().Sub(st.loadedAt) < t.interval {
		return st.table, nil
	}
	table, err := t.client.FetchTable(ctx)
	if err != nil {
		if st != nil {
			t.log.Warnf("table refresh failed, serving stale snapshot: %v", err)
			t.state.Store(&tableState{table: st.table, loadedAt: t.now()})
			return st.table, nil
		}
		return nil, err
	}
	t.state.Store(&tableState{table: table, loadedAt: t.now()})
	return table, nil
}
