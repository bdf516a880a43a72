package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/core/resolve"
	"github.com/vlo-krakow/timetable/infra/logger"
)

var periodStarts = []string{
	"07:10", "08:00", "08:50", "09:40", "10:30", "11:20",
	"12:25", "13:15", "14:05", "14:55", "16:30",
}

func testTable() *model.Table {
	t := &model.Table{
		Classes: map[string]string{"2A": "-52"},
		Teachers: map[string]model.Teacher{
			"5": {ID: "5", Short: "JK"},
		},
		Classrooms: map[string]model.Classroom{
			"9": {ID: "9", Name: "Aula", Short: "A1"},
		},
		Subjects: map[string]model.Subject{
			"7":  {ID: "7", Name: "Fizyka", Short: "fiz"},
			"8":  {ID: "8", Name: "religia", Short: "rel"},
			"10": {ID: "10", Name: "Chemia_Org", Short: "chem"},
		},
	}
	for i, start := range periodStarts {
		t.Periods = append(t.Periods, model.Period{Index: i, StartTime: start})
	}
	return t
}

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	ovr := resolve.NewOverrides(t.TempDir(), "", time.Hour, logger.NopLogger{})
	return New(resolve.NewResolver(ovr, logger.NopLogger{}), nil, logger.NopLogger{})
}

// Wednesday; the containing week runs 2024-03-11 through 2024-03-15.
var weekDate = time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)

func lesson(date, start string) model.RawItem {
	return model.RawItem{Type: model.ItemTypeLesson, Date: date, StartTime: start, SubjectID: "7"}
}

func TestGridShapeAndPositions(t *testing.T) {
	n := testNormalizer(t)
	items := []model.RawItem{
		lesson("2024-03-11", "07:10"),
		lesson("2024-03-13", "08:50"),
		lesson("2024-03-15", "16:30"),
	}
	tt, err := n.Normalize(items, weekDate, testTable(), false)
	require.NoError(t, err)

	require.Len(t, tt.Grid, model.GridDays)
	total := 0
	for day := range tt.Grid {
		require.Len(t, tt.Grid[day], model.GridPeriods)
		for period, cell := range tt.Grid[day] {
			require.NotNil(t, cell)
			for _, entry := range cell {
				require.Equal(t, day, entry.DayIndex)
				require.Equal(t, period, entry.TimeIndex)
				total++
			}
		}
	}
	require.Equal(t, 3, total)
	require.Len(t, tt.Grid[0][0], 1)
	require.Len(t, tt.Grid[2][2], 1)
	require.Len(t, tt.Grid[4][10], 1)
}

func TestStartTimeClamping(t *testing.T) {
	n := testNormalizer(t)
	items := []model.RawItem{
		lesson("2024-03-11", "06:45"), // before the school day
		lesson("2024-03-11", "17:00"), // after the school day
		lesson("2024-03-11", "09:17"), // unknown in-range time: dropped
	}
	tt, err := n.Normalize(items, weekDate, testTable(), false)
	require.NoError(t, err)

	require.Len(t, tt.Grid[0][0], 1, "06:45 buckets at 07:10")
	require.Len(t, tt.Grid[0][10], 1, "17:00 buckets at 16:30")
	count := 0
	for _, cells := range tt.Grid[0] {
		count += len(cells)
	}
	require.Equal(t, 2, count, "the 09:17 item must be dropped")
}

func TestMalformedItemsDroppedIndividually(t *testing.T) {
	n := testNormalizer(t)
	items := []model.RawItem{
		lesson("2024-03-16", "08:00"),  // Saturday: outside the grid
		lesson("not-a-date", "08:00"),  // unparsable date
		{Type: model.ItemTypeLesson, Date: "2024-03-11", StartTime: "8 AM", SubjectID: "7"},
		lesson("2024-03-11", "08:00"), // survives
	}
	tt, err := n.Normalize(items, weekDate, testTable(), false)
	require.NoError(t, err)
	require.Len(t, tt.Grid[0][1], 1)
	total := 0
	for day := range tt.Grid {
		for _, cell := range tt.Grid[day] {
			total += len(cell)
		}
	}
	require.Equal(t, 1, total)
}

func TestExceptionDurationClamp(t *testing.T) {
	n := testNormalizer(t)
	for _, duration := range []int{1, 2, 5, 40} {
		items := []model.RawItem{{
			Type:            "absent",
			Date:            "2024-03-12",
			StartTime:       "14:05",
			DurationPeriods: duration,
			Name:            "wycieczka",
		}}
		tt, err := n.Normalize(items, weekDate, testTable(), false)
		require.NoError(t, err)
		require.Len(t, tt.Events, 1)
		ev := tt.Events[0]
		require.Equal(t, 1, ev.DayIndex)
		require.Equal(t, 8, ev.TimeIndex)
		require.LessOrEqual(t, ev.TimeIndex+ev.Duration, model.ExceptionPeriodBound)
		require.Equal(t, "wycieczka", ev.Name)
	}
}

func TestLessonDurationClampedToGrid(t *testing.T) {
	n := testNormalizer(t)
	item := lesson("2024-03-11", "14:55")
	item.DurationPeriods = 5
	tt, err := n.Normalize([]model.RawItem{item}, weekDate, testTable(), false)
	require.NoError(t, err)
	entry := tt.Grid[0][9][0]
	require.Equal(t, model.GridPeriods-9, entry.Duration)
}

func TestLessonDefaults(t *testing.T) {
	n := testNormalizer(t)
	items := []model.RawItem{{
		Type:      model.ItemTypeLesson,
		Date:      "2024-03-13",
		StartTime: "08:00",
		SubjectID: "10",
	}}
	tt, err := n.Normalize(items, weekDate, testTable(), false)
	require.NoError(t, err)
	entry := tt.Grid[2][1][0]
	require.Equal(t, "chemia org", entry.Subject, "canonicalized subject")
	require.Equal(t, model.DefaultColor, entry.Color)
	require.Equal(t, 1, entry.Duration)
	require.Equal(t, "", entry.Teacher, "sentinel teacher id resolves to empty")
	require.Equal(t, "", entry.GroupRaw)
	require.False(t, entry.Removed)
	require.Nil(t, entry.Raw)
}

func TestDetailCarriesRawRecords(t *testing.T) {
	n := testNormalizer(t)
	items := []model.RawItem{{
		Type:         model.ItemTypeLesson,
		Date:         "2024-03-13",
		StartTime:    "08:00",
		SubjectID:    "7",
		TeacherIDs:   []string{"5"},
		ClassroomIDs: []string{"9"},
	}}

	lean, err := n.Normalize(items, weekDate, testTable(), false)
	require.NoError(t, err)
	require.Nil(t, lean.Grid[2][1][0].Raw)

	full, err := n.Normalize(items, weekDate, testTable(), true)
	require.NoError(t, err)
	raw := full.Grid[2][1][0].Raw
	require.NotNil(t, raw)
	require.Equal(t, "Fizyka", raw.Subject.Name)
	require.Equal(t, "JK", raw.Teacher.Short)
	require.Equal(t, "A1", raw.Classroom.Short)
	require.Equal(t, "08:00", raw.Period.StartTime)
}

func TestReligionGroupReassignment(t *testing.T) {
	n := testNormalizer(t)
	items := []model.RawItem{{
		Type:       model.ItemTypeLesson,
		Date:       "2024-03-13",
		StartTime:  "08:00",
		SubjectID:  "8",
		GroupNames: []string{"2a1kl-3"},
	}}
	tt, err := n.Normalize(items, weekDate, testTable(), false)
	require.NoError(t, err)
	entry := tt.Grid[2][1][0]
	require.Equal(t, "religia", entry.Subject)
	require.Equal(t, "religia 1", entry.Group)
	require.Equal(t, "2a1kl-3", entry.GroupRaw, "the raw group is untouched")
}

func TestInputOrderIrrelevant(t *testing.T) {
	n := testNormalizer(t)
	forward := []model.RawItem{
		lesson("2024-03-11", "07:10"),
		lesson("2024-03-12", "08:00"),
		lesson("2024-03-13", "08:50"),
		lesson("2024-03-14", "09:40"),
		lesson("2024-03-15", "10:30"),
	}
	reverse := make([]model.RawItem, len(forward))
	for i, item := range forward {
		reverse[len(forward)-1-i] = item
	}

	a, err := n.Normalize(forward, weekDate, testTable(), false)
	require.NoError(t, err)
	b, err := n.Normalize(reverse, weekDate, testTable(), false)
	require.NoError(t, err)
	require.Equal(t, a.Grid, b.Grid)
}

func TestSameSlotEntriesShareCell(t *testing.T) {
	n := testNormalizer(t)
	first := lesson("2024-03-13", "08:00")
	first.GroupNames = []string{"2a1kl-1"}
	second := lesson("2024-03-13", "08:00")
	second.GroupNames = []string{"2n1kl-2"}

	tt, err := n.Normalize([]model.RawItem{first, second}, weekDate, testTable(), false)
	require.NoError(t, err)
	cell := tt.Grid[2][1]
	require.Len(t, cell, 2)
	require.Equal(t, "język angielski mały 1", cell[0].Group)
	require.Equal(t, "język niemiecki mały 2", cell[1].Group)
}

func TestUnknownGroupTokenAbortsPass(t *testing.T) {
	n := testNormalizer(t)
	item := lesson("2024-03-13", "08:00")
	item.GroupNames = []string{"2q1kl-3"}
	_, err := n.Normalize([]model.RawItem{item}, weekDate, testTable(), false)
	require.Error(t, err)
}

func TestEmptyInputYieldsEmptyTimetable(t *testing.T) {
	n := testNormalizer(t)
	tt, err := n.Normalize(nil, weekDate, testTable(), false)
	require.NoError(t, err)
	require.NotNil(t, tt.Events)
	require.Empty(t, tt.Events)
	for day := range tt.Grid {
		for _, cell := range tt.Grid[day] {
			require.Empty(t, cell)
		}
	}
}
