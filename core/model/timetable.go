package model

// Grid dimensions. Days are Monday (0) through Friday (4); periods are
// indexed 0-10 by their canonical start times.
const (
	GridDays    = 5
	GridPeriods = 11
)

// ExceptionPeriodBound is the last period index an exception entry may reach:
// time_index + duration never exceeds it after clamping.
const ExceptionPeriodBound = 9

// RawDetail carries the upstream records an entry was resolved from. It is
// attached only when the caller asked for detail output.
type RawDetail struct {
	Subject   Subject   `json:"subject"`
	Period    Period    `json:"period"`
	Teacher   Teacher   `json:"teacher"`
	Classroom Classroom `json:"classroom"`
}

// LessonEntry is one normalized lesson occurrence. Entries are immutable
// after normalization and owned by the grid cell they are placed in.
type LessonEntry struct {
	Subject      string     `json:"subject"`
	SubjectShort string     `json:"subject_short"`
	Teacher      string     `json:"teacher"`
	Classroom    string     `json:"classroom"`
	Color        string     `json:"color"`
	TimeIndex    int        `json:"time_index"`
	Duration     int        `json:"duration"`
	GroupRaw     string     `json:"group_raw"`
	Group        string     `json:"group"`
	Date         string     `json:"date"`
	DayIndex     int        `json:"day_index"`
	Removed      bool       `json:"removed"`
	Raw          *RawDetail `json:"raw,omitempty"`
}

// ExceptionEntry is one normalized non-lesson occurrence (absence or event).
type ExceptionEntry struct {
	Date      string `json:"date"`
	DayIndex  int    `json:"day_index"`
	Duration  int    `json:"duration"`
	GroupRaw  string `json:"group_raw"`
	Group     string `json:"group"`
	Name      string `json:"name"`
	TimeIndex int    `json:"time_index"`
}

// WeekGrid is the fixed 5x11 timetable grid. Every lesson entry appears in
// exactly one cell, addressed by its own (DayIndex, TimeIndex).
type WeekGrid [GridDays][GridPeriods][]LessonEntry

// Timetable is the normalized output for one (week, class) pair.
type Timetable struct {
	Grid   WeekGrid         `json:"grid"`
	Events []ExceptionEntry `json:"events"`
}

// NewWeekGrid returns a grid with every cell initialized to an empty list so
// the serialized form is always a full 5x11 array of arrays.
func NewWeekGrid() WeekGrid {
	var g WeekGrid
	for d := range g {
		for p := range g[d] {
			g[d][p] = []LessonEntry{}
		}
	}
	return g
}
