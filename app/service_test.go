package app

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vlo-krakow/timetable/config"
	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/infra/edupage"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Edupage = config.EdupageConfig{BaseURL: baseURL, TimeoutSeconds: 5}
	cfg.Cache = config.CacheConfig{
		Backend: config.CacheBackendFile,
		Dir:     filepath.Join(t.TempDir(), "cache"),
	}
	cfg.Overrides = config.OverridesConfig{Dir: t.TempDir()}
	cfg.Edupage.SetDefaults()
	cfg.Cache.SetDefaults()
	cfg.Overrides.SetDefaults()
	cfg.Metrics.SetDefaults()
	require.NoError(t, cfg.Edupage.Validate())
	require.NoError(t, cfg.Cache.Validate())
	return cfg
}

func TestServiceEndToEnd(t *testing.T) {
	mock := edupage.NewServerMock()
	mock.SetTables(
		map[string]string{"2A": "-52"},
		[]model.Teacher{{ID: "5", Short: "JK"}},
		[]model.Classroom{{ID: "9", Name: "Aula", Short: "A1"}},
		[]model.Subject{{ID: "7", Name: "Fizyka", Short: "fiz"}},
		[]model.Period{
			{Index: 0, StartTime: "07:10"}, {Index: 1, StartTime: "08:00"},
			{Index: 2, StartTime: "08:50"}, {Index: 3, StartTime: "09:40"},
		},
	)
	mock.Items = []model.RawItem{
		{
			Type:         model.ItemTypeLesson,
			Date:         "2024-03-13",
			StartTime:    "08:00",
			SubjectID:    "7",
			TeacherIDs:   []string{"5"},
			ClassroomIDs: []string{"9"},
			Colors:       []string{"#aabbcc"},
		},
		{
			Type:      "absent",
			Date:      "2024-03-14",
			StartTime: "07:10",
			Name:      "rekolekcje",
		},
	}
	ts := httptest.NewServer(mock.Handler())
	defer ts.Close()

	svc, err := New(testConfig(t, ts.URL))
	require.NoError(t, err)
	defer svc.Close()

	date := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
	tt, err := svc.Timetable(context.Background(), date, "2A", false)
	require.NoError(t, err)

	entry := tt.Grid[2][1][0]
	require.Equal(t, "fizyka", entry.Subject)
	require.Equal(t, "JK", entry.Teacher)
	require.Equal(t, "a1", entry.Classroom)
	require.Equal(t, "#aabbcc", entry.Color)

	require.Len(t, tt.Events, 1)
	require.Equal(t, "rekolekcje", tt.Events[0].Name)
	require.Equal(t, 3, tt.Events[0].DayIndex)

	// The durable and result caches keep a repeat request off the network.
	before := mock.WeekRequests()
	_, err = svc.Timetable(context.Background(), date, "2A", false)
	require.NoError(t, err)
	require.Equal(t, before, mock.WeekRequests())
}

func TestServiceUpstreamDownDegradesToEmptyWeek(t *testing.T) {
	mock := edupage.NewServerMock()
	mock.SetTables(map[string]string{"2A": "-52"}, nil, nil, nil,
		[]model.Period{{Index: 0, StartTime: "07:10"}})
	ts := httptest.NewServer(mock.Handler())
	defer ts.Close()

	svc, err := New(testConfig(t, ts.URL))
	require.NoError(t, err)
	defer svc.Close()

	date := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)

	// Load the tables first, then take the week endpoint down.
	_, err = svc.Timetable(context.Background(), date, "2A", false)
	require.NoError(t, err)
	mock.SetFailStatus(503)

	tt, err := svc.Timetable(context.Background(), date.AddDate(0, 0, 7), "2A", false)
	require.NoError(t, err)
	require.Empty(t, tt.Events)
	for day := range tt.Grid {
		for _, cell := range tt.Grid[day] {
			require.Empty(t, cell)
		}
	}
}
