package cache

import (
	"time"

	"github.com/vlo-krakow/timetable/internal/dateutil"
)

// NoExpiry marks an entry as effectively permanent.
const NoExpiry time.Duration = 0

// SchedulePolicy computes the adaptive time-to-live for cached schedule
// weeks: schedules for future dates are volatile and expire quickly, while
// settled history never changes and is kept permanently.
type SchedulePolicy struct {
	// FutureTTL bounds entries whose date is still ahead of now.
	FutureTTL time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// TTL returns the time-to-live for an entry covering the given date. The
// comparison is against the date's midnight, so the current day already
// counts as settled.
func (p SchedulePolicy) TTL(date time.Time) time.Duration {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	if now().Before(dateutil.Midnight(date)) {
		return p.FutureTTL
	}
	return NoExpiry
}
