/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package clickup

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strconv"
    "strings"
    "time"

    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/mjblacker/cu-reporter/internal/domain"
    "github.com/rs/zerolog"
)

const unknownUser = "unknown"

type Client struct {
    baseURL string
    apiKey  string
    teamID  string
    http    *http.Client
    log     zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        baseURL: strings.TrimRight(cfg.ClickUpBaseURL, "/"),
        apiKey:  cfg.ClickUpAPIKey,
        teamID:  cfg.ClickUpTeamID,
        http:    &http.Client{ Timeout: cfg.HTTPTimeout },
        log:     log,
    }
}

func (c *Client) apiURL(path string, q url.Values) string {
    if !strings.HasPrefix(path, "/") { path = "/" + path }
    u := c.baseURL + path
    if len(q) > 0 { u = u + "?" + q.Encode() }
    return u
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
    if c.baseURL == "" { return errors.New("clickup: empty baseURL") }
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
    if err != nil { return err }
    req.Header.Set("Authorization", c.apiKey)
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        b, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("clickup api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
    }
    return json.NewDecoder(resp.Body).Decode(out)
}

// TimeEntriesWithinRange fetches all time entries whose start falls inside
// [start, end] for the configured team.
func (c *Client) TimeEntriesWithinRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error) {
    q := url.Values{}
    q.Set("start_date", strconv.FormatInt(start.UnixMilli(), 10))
    q.Set("end_date", strconv.FormatInt(end.UnixMilli(), 10))
    u := c.apiURL("/team/"+url.PathEscape(c.teamID)+"/time_entries", q)
    var res timeEntriesResponse
    if err := c.getJSON(ctx, u, &res); err != nil { return nil, err }
    out := make([]domain.TimeEntry, 0, len(res.Data))
    for _, r := range res.Data {
        out = append(out, entryFromRaw(r))
    }
    c.log.Debug().Int("entries", len(out)).Msg("clickup: time entries fetched")
    return out, nil
}

func entryFromRaw(r rawTimeEntry) domain.TimeEntry {
    e := domain.TimeEntry{
        ID:       r.ID,
        UserID:   r.User.ID.String(),
        UserName: r.User.Username,
        Duration: parseMillis(r.Duration),
        Start:    parseMillisTime(r.Start),
    }
    // running timers report a negative duration
    if e.Duration < 0 { e.Duration = 0 }
    if r.Task != nil {
        e.TaskID = r.Task.ID
        e.TaskName = r.Task.Name
    }
    if r.End != "" {
        t := parseMillisTime(r.End)
        e.End = &t
    }
    return e
}

// TasksUpdatedWithin pages through the team task index for tasks whose updated
// timestamp falls inside [start, end], including closed tasks and subtasks.
func (c *Client) TasksUpdatedWithin(ctx context.Context, start, end time.Time) ([]domain.TaskUpdate, error) {
    var out []domain.TaskUpdate
    for page := 0; ; page++ {
        q := url.Values{}
        q.Set("page", strconv.Itoa(page))
        q.Set("date_updated_gt", strconv.FormatInt(start.UnixMilli(), 10))
        q.Set("date_updated_lt", strconv.FormatInt(end.UnixMilli(), 10))
        q.Set("include_closed", "true")
        q.Set("subtasks", "true")
        u := c.apiURL("/team/"+url.PathEscape(c.teamID)+"/task", q)
        var res tasksResponse
        if err := c.getJSON(ctx, u, &res); err != nil { return nil, err }
        for _, t := range res.Tasks {
            if t.ID == "" { continue }
            upd := domain.TaskUpdate{
                TaskID:    t.ID,
                TaskName:  t.Name,
                UserID:    unknownUser,
                UserName:  unknownUser,
                UpdatedAt: parseMillisTime(t.DateUpdated),
                Change:    domain.ChangeUpdated,
            }
            if t.List != nil { upd.ListName = t.List.Name }
            out = append(out, upd)
        }
        if len(res.Tasks) == 0 || res.LastPage { break }
    }
    c.log.Debug().Int("updates", len(out)).Msg("clickup: task updates fetched")
    return out, nil
}

// Task fetches a single task detail, used to resolve list names missing from
// time entries.
func (c *Client) Task(ctx context.Context, id string) (TaskDetail, error) {
    if id == "" { return TaskDetail{}, errors.New("clickup: empty task id") }
    u := c.apiURL("/task/"+url.PathEscape(id), nil)
    var res rawTaskFull
    if err := c.getJSON(ctx, u, &res); err != nil { return TaskDetail{}, err }
    d := TaskDetail{ID: res.ID, Name: res.Name}
    if res.List != nil { d.ListName = res.List.Name }
    return d, nil
}
