package edupage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vlo-krakow/timetable/config"
	"github.com/vlo-krakow/timetable/core/model"
	"github.com/vlo-krakow/timetable/infra/logger"
	"github.com/vlo-krakow/timetable/internal/dateutil"
)

const (
	weekPath  = "/timetable/server/currenttt.js?__func=curentttGetData&lang=en"
	tablePath = "/timetable/server/regulartt.js?__func=regularttGetData&lang=en"
)

// Client issues requests against one Edupage instance.
type Client struct {
	http    *http.Client
	baseURL string
	log     logger.Logger
}

// NewClient creates a Client for the configured instance.
func NewClient(cfg config.EdupageConfig) *Client {
	return &Client{
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL: cfg.BaseURL,
		log:     logger.New("edupage-client"),
	}
}

// FetchWeek retrieves the schedule items for the week containing date, for
// the class with the given upstream id. The query window runs from the
// Monday before the date to the Friday after it.
func (c *Client) FetchWeek(ctx context.Context, date time.Time, classID string) ([]model.RawItem, error) {
	query := weekQuery{
		Year:        dateutil.SchoolYear(date),
		DateFrom:    dateutil.MondayBefore(date).Format(dateutil.Format),
		DateTo:      dateutil.FridayAfter(date).Format(dateutil.Format),
		ID:          classID,
		ShowColors:  true,
		ShowIGroups: true,
		ShowOrig:    true,
		Table:       "classes",
	}
	var resp weekResponse
	if err := c.post(ctx, weekPath, query, &resp); err != nil {
		return nil, err
	}
	// An upstream error object decodes into a zero response. That is a
	// failed call, not an empty week.
	if resp.R.Items == nil {
		return nil, fmt.Errorf("week %s class %s: response carries no timetable items", query.DateFrom, classID)
	}
	return *resp.R.Items, nil
}

// FetchTable retrieves the class/teacher/classroom/subject/period lookup
// tables of the instance.
func (c *Client) FetchTable(ctx context.Context) (*model.Table, error) {
	var resp tableResponse
	if err := c.post(ctx, tablePath, nil, &resp); err != nil {
		return nil, err
	}
	return buildTable(resp), nil
}

func (c *Client) post(ctx context.Context, path string, arg any, out any) error {
	body, err := json.Marshal(envelope{Args: []any{nil, arg}, GSH: gshToken})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	reqID := uuid.NewString()
	c.log.Debugf("request %s: POST %s", reqID, path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", reqID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request %s: unexpected status %d", reqID, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("request %s: decode response: %w", reqID, err)
	}
	return nil
}
