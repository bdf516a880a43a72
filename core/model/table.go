package model

// Subject is an upstream subject record.
type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

// Teacher is an upstream teacher record. Short is the abbreviation used
// throughout the timetable data.
type Teacher struct {
	ID    string `json:"id"`
	Short string `json:"short"`
}

// Classroom is an upstream classroom record.
type Classroom struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

// Period is one instructional slot of the school day.
type Period struct {
	Index     int    `json:"period"`
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
}

// Table holds the upstream lookup tables referenced by raw schedule items.
// Record lookups on missing ids return zero records; the upstream uses the
// sentinel id "0" for absent references.
type Table struct {
	// Classes maps class display names to upstream numeric ids.
	Classes    map[string]string
	Teachers   map[string]Teacher
	Classrooms map[string]Classroom
	Subjects   map[string]Subject
	Periods    []Period
}

// Teacher returns the teacher record for id, or a zero record.
func (t *Table) Teacher(id string) Teacher { return t.Teachers[id] }

// Classroom returns the classroom record for id, or a zero record.
func (t *Table) Classroom(id string) Classroom { return t.Classrooms[id] }

// Subject returns the subject record for id, or a zero record.
func (t *Table) Subject(id string) Subject { return t.Subjects[id] }

// ClassID returns the upstream id for a class display name.
func (t *Table) ClassID(name string) (string, bool) {
	id, ok := t.Classes[name]
	return id, ok
}

// PeriodIndex resolves a canonical start time to its period index.
func (t *Table) PeriodIndex(startTime string) (int, bool) {
	for _, p := range t.Periods {
		if p.StartTime == startTime {
			return p.Index, true
		}
	}
	return 0, false
}

// PeriodAt returns the period record with the given index, or a zero record.
func (t *Table) PeriodAt(index int) Period {
	for _, p := range t.Periods {
		if p.Index == index {
			return p
		}
	}
	return Period{}
}
