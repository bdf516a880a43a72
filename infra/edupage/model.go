// Package edupage talks to the upstream Edupage timetable server: one
// endpoint for a class's week of schedule items and one for the lookup
// tables those items reference.
package edupage

import (
	"encoding/json"
	"strconv"

	"github.com/vlo-krakow/timetable/core/model"
)

// Placeholder security token; the public timetable endpoints accept it.
const gshToken = "00000000"

// envelope is the positional-argument request body the server expects. The
// first argument is always null.
type envelope struct {
	Args []any  `json:"__args"`
	GSH  string `json:"__gsh"`
}

// weekQuery selects one class and one week of timetable items.
type weekQuery struct {
	Year        int    `json:"year"`
	DateFrom    string `json:"datefrom"`
	DateTo      string `json:"dateto"`
	ID          string `json:"id"`
	ShowColors  bool   `json:"showColors"`
	ShowIGroups bool   `json:"showIgroupsInClasses"`
	ShowOrig    bool   `json:"showOrig"`
	Table       string `json:"table"`
}

// weekResponse carries the week's items. Items stays nil when the payload
// is absent, which tells an upstream error object apart from an empty week.
type weekResponse struct {
	R struct {
		Items *[]model.RawItem `json:"ttitems"`
	} `json:"r"`
}

type tableResponse struct {
	R struct {
		DBI struct {
			Tables []wireTable `json:"tables"`
		} `json:"dbiAccessorRes"`
	} `json:"r"`
}

type wireTable struct {
	ID   string            `json:"id"`
	Rows []json.RawMessage `json:"data_rows"`
}

type classRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type teacherRow struct {
	ID    string `json:"id"`
	Short string `json:"short"`
}

type classroomRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type subjectRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
}

type periodRow struct {
	Period    string `json:"period"`
	StartTime string `json:"starttime"`
	EndTime   string `json:"endtime"`
}

// buildTable converts the wire tables into the lookup table the normalizer
// consumes. Rows that fail to decode are skipped; the upstream mixes row
// shapes within one table on occasion.
func buildTable(resp tableResponse) *model.Table {
	t := &model.Table{
		Classes:    map[string]string{},
		Teachers:   map[string]model.Teacher{},
		Classrooms: map[string]model.Classroom{},
		Subjects:   map[string]model.Subject{},
	}
	for _, wt := range resp.R.DBI.Tables {
		switch wt.ID {
		case "classes":
			for _, raw := range wt.Rows {
				var row classRow
				if json.Unmarshal(raw, &row) == nil && row.Name != "" {
					t.Classes[row.Name] = row.ID
				}
			}
		case "teachers":
			for _, raw := range wt.Rows {
				var row teacherRow
				if json.Unmarshal(raw, &row) == nil && row.ID != "" {
					t.Teachers[row.ID] = model.Teacher{ID: row.ID, Short: row.Short}
				}
			}
		case "classrooms":
			for _, raw := range wt.Rows {
				var row classroomRow
				if json.Unmarshal(raw, &row) == nil && row.ID != "" {
					t.Classrooms[row.ID] = model.Classroom{ID: row.ID, Name: row.Name, Short: row.Short}
				}
			}
		case "subjects":
			for _, raw := range wt.Rows {
				var row subjectRow
				if json.Unmarshal(raw, &row) == nil && row.ID != "" {
					t.Subjects[row.ID] = model.Subject{ID: row.ID, Name: row.Name, Short: row.Short}
				}
			}
		case "periods":
			for _, raw := range wt.Rows {
				var row periodRow
				if json.Unmarshal(raw, &row) != nil {
					continue
				}
				index, err := strconv.Atoi(row.Period)
				if err != nil {
					continue
				}
				t.Periods = append(t.Periods, model.Period{
					Index:     index,
					StartTime: row.StartTime,
					EndTime:   row.EndTime,
				})
			}
		}
	}
	return t
}
