package edupage

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/vlo-krakow/timetable/core/model"
)

// ServerMock emulates the two upstream endpoints for tests. It records the
// last decoded week query so tests can assert on the request envelope.
type ServerMock struct {
	mu sync.Mutex
	// Items is returned from the week endpoint.
	Items []model.RawItem
	// Tables is returned from the table endpoint.
	Tables tableResponse
	// FailStatus, when non-zero, makes every request fail with that code.
	FailStatus int
	// OmitWeekPayload makes the week endpoint answer 200 with an empty
	// object, the shape of an upstream error response.
	OmitWeekPayload bool

	lastWeekQuery *weekQuery
	weekRequests  int
}

// NewServerMock creates an empty mock.
func NewServerMock() *ServerMock { return &ServerMock{} }

// Handler returns the HTTP handler; wrap it in an httptest server.
func (s *ServerMock) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/timetable/server/currenttt.js", s.handleWeek)
	mux.HandleFunc("/timetable/server/regulartt.js", s.handleTable)
	return mux
}

// SetTables fills the table endpoint's response from typed records.
func (s *ServerMock) SetTables(classes map[string]string, teachers []model.Teacher, classrooms []model.Classroom, subjects []model.Subject, periods []model.Period) {
	row := func(v any) json.RawMessage {
		data, _ := json.Marshal(v)
		return data
	}
	var resp tableResponse
	classTable := wireTable{ID: "classes"}
	for name, id := range classes {
		classTable.Rows = append(classTable.Rows, row(classRow{ID: id, Name: name}))
	}
	teacherTable := wireTable{ID: "teachers"}
	for _, t := range teachers {
		teacherTable.Rows = append(teacherTable.Rows, row(teacherRow{ID: t.ID, Short: t.Short}))
	}
	classroomTable := wireTable{ID: "classrooms"}
	for _, c := range classrooms {
		classroomTable.Rows = append(classroomTable.Rows, row(classroomRow{ID: c.ID, Name: c.Name, Short: c.Short}))
	}
	subjectTable := wireTable{ID: "subjects"}
	for _, sub := range subjects {
		subjectTable.Rows = append(subjectTable.Rows, row(subjectRow{ID: sub.ID, Name: sub.Name, Short: sub.Short}))
	}
	periodTable := wireTable{ID: "periods"}
	for _, p := range periods {
		periodTable.Rows = append(periodTable.Rows, row(periodRow{
			Period:    strconv.Itoa(p.Index),
			StartTime: p.StartTime,
			EndTime:   p.EndTime,
		}))
	}
	resp.R.DBI.Tables = []wireTable{classTable, teacherTable, classroomTable, subjectTable, periodTable}

	s.mu.Lock()
	s.Tables = resp
	s.mu.Unlock()
}

// SetFailStatus makes subsequent requests fail with the given status; zero
// restores normal responses.
func (s *ServerMock) SetFailStatus(status int) {
	s.mu.Lock()
	s.FailStatus = status
	s.mu.Unlock()
}

// LastWeekQuery returns the most recent decoded week query, or nil.
func (s *ServerMock) LastWeekQuery() *weekQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastWeekQuery
}

// WeekRequests returns how many week fetches the mock has served.
func (s *ServerMock) WeekRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weekRequests
}

func (s *ServerMock) handleWeek(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Args []json.RawMessage `json:"__args"`
		GSH  string            `json:"__gsh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Args) != 2 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	var query weekQuery
	if err := json.Unmarshal(req.Args[1], &query); err != nil {
		http.Error(w, "bad query", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.lastWeekQuery = &query
	s.weekRequests++
	fail := s.FailStatus
	omit := s.OmitWeekPayload
	items := s.Items
	s.mu.Unlock()

	if fail != 0 {
		http.Error(w, "unavailable", fail)
		return
	}
	if omit {
		writeJSON(w, struct{}{})
		return
	}
	if items == nil {
		items = []model.RawItem{}
	}
	var resp weekResponse
	resp.R.Items = &items
	writeJSON(w, resp)
}

func (s *ServerMock) handleTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	fail := s.FailStatus
	tables := s.Tables
	s.mu.Unlock()

	if fail != 0 {
		http.Error(w, "unavailable", fail)
		return
	}
	writeJSON(w, tables)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
