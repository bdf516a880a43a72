package model

// ItemTypeLesson is the upstream type tag for regular lessons. Anything else
// (absences, school events) is treated as an exception entry.
const ItemTypeLesson = "card"

// DefaultColor is used for lessons the upstream did not color.
const DefaultColor = "#d0ffd0"

// RawItem is one schedule record as returned by the upstream system. Most
// fields are optional on the wire; the accessor methods resolve each absent
// field to its stated default exactly once.
type RawItem struct {
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	StartTime       string   `json:"starttime"`
	DurationPeriods int      `json:"durationperiods,omitempty"`
	SubjectID       string   `json:"subjectid,omitempty"`
	TeacherIDs      []string `json:"teacherids,omitempty"`
	ClassroomIDs    []string `json:"classroomids,omitempty"`
	GroupNames      []string `json:"groupnames,omitempty"`
	Colors          []string `json:"colors,omitempty"`
	Name            string   `json:"name,omitempty"`
	Removed         bool     `json:"removed,omitempty"`
}

// TeacherID returns the first referenced teacher id, or the upstream sentinel
// "0" when none is present.
func (r RawItem) TeacherID() string { return firstOr(r.TeacherIDs, "0") }

// ClassroomID returns the first referenced classroom id, or the sentinel "0".
func (r RawItem) ClassroomID() string { return firstOr(r.ClassroomIDs, "0") }

// GroupRaw returns the first group name, or "" for whole-class items.
func (r RawItem) GroupRaw() string { return firstOr(r.GroupNames, "") }

// Color returns the first display color, or DefaultColor.
func (r RawItem) Color() string { return firstOr(r.Colors, DefaultColor) }

// Duration returns the duration in periods, defaulting to a single period.
func (r RawItem) Duration() int {
	if r.DurationPeriods <= 0 {
		return 1
	}
	return r.DurationPeriods
}

// IsLesson reports whether the item is a regular lesson.
func (r RawItem) IsLesson() bool { return r.Type == ItemTypeLesson }

func firstOr(s []string, def string) string {
	if len(s) == 0 || s[0] == "" {
		return def
	}
	return s[0]
}
