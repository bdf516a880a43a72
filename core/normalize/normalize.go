// Package normalize turns raw upstream schedule items into the canonical
// weekly grid and exception list.
package normalize

import (
	"fmt"
	"sort"
	"time"

	"github.com/vlo-krakow/timetable/core/logger"
	"github.com/vlo-krakow/timetable/core/metrics"
	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/core/resolve"
	"github.com/vlo-krakow/timetable/internal/dateutil"
)

// Display buckets for out-of-range start times. Upstream occasionally emits
// lessons before the first or after the last period of the day.
const (
	earliestStart = "07:10"
	latestStart   = "16:30"
)

// Lessons resolving to this subject get a synthetic group so downstream
// group filters can select them. A denormalization for UI convenience.
const (
	religionSubject = "religia"
	religionGroup   = "religia 1"
)

// Normalizer builds timetables from raw item lists.
type Normalizer struct {
	resolver *resolve.Resolver
	rec      metrics.Recorder
	log      logger.Logger
}

// New creates a Normalizer using the given name resolver.
func New(resolver *resolve.Resolver, rec metrics.Recorder, log logger.Logger) *Normalizer {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Normalizer{resolver: resolver, rec: rec, log: log}
}

// Normalize converts one week of raw items into a timetable. date selects
// the week (day indexes are offsets from its Monday); detail attaches the
// raw upstream records to each lesson. Malformed items are logged and
// dropped individually; only an unknown structured group code aborts the
// whole pass.
func (n *Normalizer) Normalize(items []model.RawItem, date time.Time, table *model.Table, detail bool) (*model.Timetable, error) {
	monday := utcMidnight(dateutil.MondayBefore(date))

	var lessons []model.LessonEntry
	events := []model.ExceptionEntry{}

	for _, item := range items {
		itemDate, err := time.Parse(dateutil.Format, item.Date)
		if err != nil {
			n.log.Errorf("malformed item date %q", item.Date)
			n.rec.RecordDrop(metrics.DropDate)
			continue
		}
		dayIndex := int(itemDate.Sub(monday).Hours() / 24)
		if dayIndex < 0 || dayIndex >= model.GridDays {
			n.log.Errorf("item date %s outside the school week", item.Date)
			n.rec.RecordDrop(metrics.DropDayIndex)
			continue
		}

		timeIndex, ok := n.resolveTimeIndex(item.StartTime, table)
		if !ok {
			n.rec.RecordDrop(metrics.DropStartTime)
			continue
		}

		group, err := n.resolver.Group(item.GroupRaw())
		if err != nil {
			return nil, fmt.Errorf("normalize %s: %w", item.Date, err)
		}

		if item.IsLesson() {
			lessons = append(lessons, n.lessonEntry(item, table, timeIndex, dayIndex, group, detail))
		} else {
			events = append(events, exceptionEntry(item, timeIndex, dayIndex, group))
		}
	}

	// The upstream feed's ordering is advisory at best; treat it as
	// unordered. The sort must be stable so same-slot entries keep their
	// relative order.
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].DayIndex < lessons[j].DayIndex
	})

	for i := range lessons {
		if lessons[i].Subject == religionSubject {
			lessons[i].Group = religionGroup
		}
	}

	return &model.Timetable{Grid: buildGrid(lessons), Events: events}, nil
}

// resolveTimeIndex parses and clamps a start time into a period index.
// Out-of-range times land on the first or last bucket; in-range times must
// match a known period start exactly or the item cannot be placed.
func (n *Normalizer) resolveTimeIndex(startTime string, table *model.Table) (int, bool) {
	parsed, err := time.Parse("15:04", startTime)
	if err != nil {
		n.log.Errorf("unusual starttime encountered (%s)", startTime)
		return 0, false
	}
	minute := parsed.Hour()*60 + parsed.Minute()

	bucket := startTime
	switch {
	case minute < clockMinute(earliestStart):
		bucket = earliestStart
	case minute > clockMinute(latestStart):
		bucket = latestStart
	default:
		if _, ok := table.PeriodIndex(startTime); !ok {
			n.log.Errorf("unusual starttime encountered (%s)", startTime)
			return 0, false
		}
	}
	index, ok := table.PeriodIndex(bucket)
	if !ok {
		n.log.Errorf("no period starts at %s", bucket)
		return 0, false
	}
	return index, true
}

func (n *Normalizer) lessonEntry(item model.RawItem, table *model.Table, timeIndex, dayIndex int, group string, detail bool) model.LessonEntry {
	subject := table.Subject(item.SubjectID)
	teacher := table.Teacher(item.TeacherID())
	classroom := table.Classroom(item.ClassroomID())

	duration := item.Duration()
	if timeIndex+duration > model.GridPeriods {
		duration = model.GridPeriods - timeIndex
	}

	entry := model.LessonEntry{
		Subject:      n.resolver.Subject(subject),
		SubjectShort: n.resolver.SubjectShort(subject),
		Teacher:      n.resolver.Teacher(teacher),
		Classroom:    n.resolver.Classroom(classroom),
		Color:        item.Color(),
		TimeIndex:    timeIndex,
		Duration:     duration,
		GroupRaw:     item.GroupRaw(),
		Group:        group,
		Date:         item.Date,
		DayIndex:     dayIndex,
		Removed:      item.Removed,
	}
	if detail {
		entry.Raw = &model.RawDetail{
			Subject:   subject,
			Period:    table.PeriodAt(timeIndex),
			Teacher:   teacher,
			Classroom: classroom,
		}
	}
	return entry
}

func exceptionEntry(item model.RawItem, timeIndex, dayIndex int, group string) model.ExceptionEntry {
	duration := item.Duration()
	if timeIndex+duration > model.ExceptionPeriodBound {
		duration = model.ExceptionPeriodBound - timeIndex
	}
	return model.ExceptionEntry{
		Date:      item.Date,
		DayIndex:  dayIndex,
		Duration:  duration,
		GroupRaw:  item.GroupRaw(),
		Group:     group,
		Name:      item.Name,
		TimeIndex: timeIndex,
	}
}

// buildGrid places sorted lessons into the fixed 5x11 grid. Entries sharing
// a (day, period) form one contiguous run after the stable sort and become
// that cell's list.
func buildGrid(lessons []model.LessonEntry) model.WeekGrid {
	grid := model.NewWeekGrid()
	for i := 0; i < len(lessons); {
		j := i
		day, period := lessons[i].DayIndex, lessons[i].TimeIndex
		for j < len(lessons) && lessons[j].DayIndex == day && lessons[j].TimeIndex == period {
			j++
		}
		grid[day][period] = lessons[i:j:j]
		i = j
	}
	return grid
}

func clockMinute(clock string) int {
	t, _ := time.Parse("15:04", clock)
	return t.Hour()*60 + t.Minute()
}

func utcMidnight(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
