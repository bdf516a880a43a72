// Package resolve turns raw upstream identifiers into display names, with
// manually curated overrides taking precedence over automatic
// canonicalization.
package resolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vlo-krakow/timetable/core/logger"
)

// Override categories stored as one JSON file each under the override
// directory.
const (
	CategorySubject      = "subject"
	CategorySubjectShort = "subject_short"
	CategoryClassroom    = "classroom"
	CategoryGroup        = "group"
)

// Snapshot is one immutable view of all override tables. Readers always see
// a complete snapshot; refreshes swap the whole snapshot in.
type Snapshot struct {
	Subject      map[string]string
	SubjectShort map[string]string
	Classroom    map[string]string
	Group        map[string]string
	// Teachers maps lowercased teacher abbreviations to full names. It comes
	// from its own resource file, not the override directory.
	Teachers map[string]string
}

// Lookup returns the override for key in the given category table.
func (s *Snapshot) Lookup(category, key string) (string, bool) {
	var m map[string]string
	switch category {
	case CategorySubject:
		m = s.Subject
	case CategorySubjectShort:
		m = s.SubjectShort
	case CategoryClassroom:
		m = s.Classroom
	case CategoryGroup:
		m = s.Group
	}
	v, ok := m[key]
	return v, ok
}

type snapshotState struct {
	snap     *Snapshot
	loadedAt time.Time
}

// Overrides loads the override tables lazily and refreshes them at most once
// per interval. Reads never block on a refresh: the previous snapshot keeps
// serving until the new one is swapped in.
type Overrides struct {
	dir         string
	teacherPath string
	interval    time.Duration
	log         logger.Logger
	now         func() time.Time

	mu    sync.Mutex
	state atomic.Pointer[snapshotState]
}

// NewOverrides creates an override loader reading category files from dir and
// the teacher name-expansion table from teacherPath.
func NewOverrides(dir, teacherPath string, interval time.Duration, log logger.Logger) *Overrides {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Overrides{
		dir:         dir,
		teacherPath: teacherPath,
		interval:    interval,
		log:         log,
		now:         time.Now,
	}
}

// Current returns the current snapshot, loading or refreshing it first when
// the cached one is older than the refresh interval. A failed refresh keeps
// the previous snapshot.
func (o *Overrides) Current() *Snapshot {
	if st := o.state.Load(); st != nil && o.now().Sub(st.loadedAt) < o.interval {
		return st.snap
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	st := o.state.Load()
	if st != nil && o.now().Sub(st.loadedAt) < o.interval {
		return st.snap
	}
	snap, err := o.load()
	if err != nil && st != nil {
		// Keep serving the previous snapshot and retry a full interval
		// later.
		o.log.Warnf("refresh overrides: %v", err)
		o.state.Store(&snapshotState{snap: st.snap, loadedAt: o.now()})
		return st.snap
	}
	if err != nil {
		o.log.Warnf("load overrides: %v", err)
	}
	o.state.Store(&snapshotState{snap: snap, loadedAt: o.now()})
	return snap
}

// load reads all tables. Tables whose file failed come back empty alongside
// the error, so a first load can still serve what it has.
func (o *Overrides) load() (*Snapshot, error) {
	var errs []error
	category := func(name string) map[string]string {
		m, err := o.loadCategory(name)
		if err != nil {
			errs = append(errs, err)
		}
		return m
	}
	snap := &Snapshot{
		Subject:      category(CategorySubject),
		SubjectShort: category(CategorySubjectShort),
		Classroom:    category(CategoryClassroom),
		Group:        category(CategoryGroup),
	}
	teachers, err := o.loadTeachers()
	if err != nil {
		errs = append(errs, err)
	}
	snap.Teachers = teachers
	return snap, errors.Join(errs...)
}

// loadCategory reads one category file. A missing file is an empty table; an
// unreadable or malformed one is an error.
func (o *Overrides) loadCategory(category string) (map[string]string, error) {
	path := filepath.Join(o.dir, category+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return map[string]string{}, fmt.Errorf("read overrides %s: %w", category, err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]string{}, fmt.Errorf("parse overrides %s: %w", category, err)
	}
	return m, nil
}

// loadTeachers parses the teacher abbreviation table, lowercasing keys so
// lookups are case-insensitive.
func (o *Overrides) loadTeachers() (map[string]string, error) {
	out := map[string]string{}
	if o.teacherPath == "" {
		return out, nil
	}
	data, err := os.ReadFile(o.teacherPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return out, fmt.Errorf("read teacher table: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return out, fmt.Errorf("parse teacher table: %w", err)
	}
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out, nil
}
