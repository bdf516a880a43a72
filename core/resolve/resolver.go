package resolve

import (
	"strings"

	"github.com/vlo-krakow/timetable/core/logger"
	"github.com/vlo-krakow/timetable/core/model"
)

// Resolver produces display names for subjects, teachers, classrooms and
// groups. Overrides win; otherwise names are canonicalized, except teacher
// abbreviations which are proper identifiers and pass through unchanged.
type Resolver struct {
	ovr *Overrides
	log logger.Logger
}

// NewResolver creates a Resolver backed by the given override tables.
func NewResolver(ovr *Overrides, log logger.Logger) *Resolver {
	return &Resolver{ovr: ovr, log: log}
}

// Canonicalize lowercases a raw name and replaces underscores with spaces.
func Canonicalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", " "))
}

// Subject resolves a subject record to its long display name.
func (r *Resolver) Subject(s model.Subject) string {
	if s.Name == "" {
		return ""
	}
	if v, ok := r.ovr.Current().Lookup(CategorySubject, s.Name); ok {
		return v
	}
	return Canonicalize(s.Name)
}

// SubjectShort resolves a subject record to its abbreviated display name.
func (r *Resolver) SubjectShort(s model.Subject) string {
	if s.Short == "" {
		return ""
	}
	if v, ok := r.ovr.Current().Lookup(CategorySubjectShort, s.Short); ok {
		return v
	}
	return Canonicalize(s.Short)
}

// Teacher expands a teacher abbreviation to a full name. Unknown
// abbreviations are logged and returned as-is; they are identifiers, not
// names to canonicalize.
func (r *Resolver) Teacher(t model.Teacher) string {
	if t.Short == "" {
		return ""
	}
	if v, ok := r.ovr.Current().Teachers[strings.ToLower(t.Short)]; ok {
		return v
	}
	r.log.Infof("no name expansion for teacher %q", t.Short)
	return t.Short
}

// Classroom resolves a classroom record to its display name.
func (r *Resolver) Classroom(c model.Classroom) string {
	if c.Short == "" {
		return ""
	}
	if v, ok := r.ovr.Current().Lookup(CategoryClassroom, c.Short); ok {
		return v
	}
	return Canonicalize(c.Short)
}

// Group resolves a raw group identifier. Override hits win, structured codes
// are decoded, anything else is canonicalized. A structured code with an
// unknown language token is an error.
func (r *Resolver) Group(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if v, ok := r.ovr.Current().Lookup(CategoryGroup, raw); ok {
		return v, nil
	}
	if display, ok, err := decodeGroupCode(raw); ok {
		return display, err
	}
	return Canonicalize(raw), nil
}
