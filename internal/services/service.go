/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package services

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/mjblacker/cu-reporter/internal/adapters/clickup"
    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/mjblacker/cu-reporter/internal/domain"
    "github.com/mjblacker/cu-reporter/internal/report"
    "github.com/rs/zerolog"
)

type TrackerClient interface {
    TimeEntriesWithinRange(ctx context.Context, start, end time.Time) ([]domain.TimeEntry, error)
    TasksUpdatedWithin(ctx context.Context, start, end time.Time) ([]domain.TaskUpdate, error)
    Task(ctx context.Context, id string) (clickup.TaskDetail, error)
}

type Notifier interface {
    Send(ctx context.Context, content string) error
}

const deliveryPause = 500 * time.Millisecond

type Service struct {
    cfg   config.Config
    log   zerolog.Logger
    cu    TrackerClient
    dc    Notifier
    pause time.Duration
}

func New(cfg config.Config, log zerolog.Logger, cu TrackerClient, dc Notifier) *Service {
    return &Service{cfg: cfg, log: log, cu: cu, dc: dc, pause: deliveryPause}
}

// Yesterday returns the previous calendar date in the business timezone, the
// default report target.
func (s *Service) Yesterday() time.Time {
    return time.Now().In(s.cfg.Location()).AddDate(0, 0, -1)
}

// DayWindow computes [startOfDay, startOfNextDay-1ms] for the date in the
// fixed business offset, keeping the window inclusive of the full day.
func (s *Service) DayWindow(date time.Time) (time.Time, time.Time) {
    loc := s.cfg.Location()
    start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
    return start, start.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// FetchDay issues the two range fetches independently and waits for both; the
// run fails if either does. Entries referencing a task but missing a list name
// are enriched afterwards via per-task lookups.
func (s *Service) FetchDay(ctx context.Context, date time.Time) ([]domain.TimeEntry, []domain.TaskUpdate, error) {
    start, end := s.DayWindow(date)
    var entries []domain.TimeEntry
    var updates []domain.TaskUpdate
    var entErr, updErr error
    var wg sync.WaitGroup
    wg.Add(2)
    go func(){ defer wg.Done(); entries, entErr = s.cu.TimeEntriesWithinRange(ctx, start, end) }()
    go func(){ defer wg.Done(); updates, updErr = s.cu.TasksUpdatedWithin(ctx, start, end) }()
    wg.Wait()
    if entErr != nil { return nil, nil, fmt.Errorf("fetching time entries: %w", entErr) }
    if updErr != nil { return nil, nil, fmt.Errorf("fetching task updates: %w", updErr) }
    s.enrichListNames(ctx, entries)
    return entries, updates, nil
}

// enrichListNames resolves missing list names through a bounded pool of task
// detail lookups. A failed lookup leaves that entry unresolved and never fails
// the fetch.
func (s *Service) enrichListNames(ctx context.Context, entries []domain.TimeEntry) {
    need := map[string]struct{}{}
    for _, e := range entries {
        if e.TaskID != "" && e.ListName == "" { need[e.TaskID] = struct{}{} }
    }
    if len(need) == 0 { return }

    workers := s.cfg.WorkersEnrich
    if workers <= 0 { workers = 6 }
    if workers > len(need) { workers = len(need) }
    jobs := make(chan string)
    type lookup struct{ id, list string }
    results := make(chan lookup, len(need))
    var wg sync.WaitGroup
    for w := 0; w < workers; w++ {
        wg.Add(1)
        go func(){
            defer wg.Done()
            for id := range jobs {
                d, err := s.cu.Task(ctx, id)
                if err != nil {
                    s.log.Debug().Err(err).Str("task", id).Msg("enrich: task lookup failed")
                    continue
                }
                if d.ListName != "" { results <- lookup{id, d.ListName} }
            }
        }()
    }
    for id := range need { jobs <- id }
    close(jobs)
    wg.Wait()
    close(results)

    lists := map[string]string{}
    for r := range results { lists[r.id] = r.list }
    for i := range entries {
        if entries[i].ListName != "" || entries[i].TaskID == "" { continue }
        if ln, ok := lists[entries[i].TaskID]; ok { entries[i].ListName = ln }
    }
    s.log.Debug().Int("requested", len(need)).Int("resolved", len(lists)).Msg("enrich: list names")
}

func (s *Service) renderer() report.Renderer {
    return report.Renderer{
        ExcludePrefixes: s.cfg.ExcludeTaskPrefixes,
        ExcludeContains: s.cfg.ExcludeTaskContains,
    }
}

// RunDailyReport fetches, aggregates and renders the report for date, printing
// the console block and/or delivering webhook messages.
func (s *Service) RunDailyReport(ctx context.Context, date time.Time, toConsole, toWebhook bool) error {
    s.log.Info().Str("date", date.Format("2006-01-02")).Msg("daily report: start")
    entries, updates, err := s.FetchDay(ctx, date)
    if err != nil { return err }
    rep := report.Build(date, entries)
    r := s.renderer()
    if toConsole { fmt.Println(r.Console(rep, updates)) }
    if toWebhook {
        if err := s.deliver(ctx, r.Messages(rep, updates)); err != nil { return err }
    }
    s.log.Info().Int("users", len(rep.Summaries)).Dur("total", rep.TotalTracked).Msg("daily report: done")
    return nil
}

// RunScheduled reports yesterday and delivers to the webhook, skipping empty
// Sunday/Monday reports when configured.
func (s *Service) RunScheduled(ctx context.Context) error {
    date := s.Yesterday()
    entries, updates, err := s.FetchDay(ctx, date)
    if err != nil { return err }
    rep := report.Build(date, entries)
    r := s.renderer()
    if s.cfg.SkipQuietDays && len(rep.Summaries) == 0 && len(r.Untracked(rep, updates)) == 0 {
        wd := time.Now().In(s.cfg.Location()).Weekday()
        if wd == time.Sunday || wd == time.Monday {
            s.log.Info().Str("weekday", wd.String()).Msg("daily report: empty quiet day, delivery skipped")
            return nil
        }
    }
    return s.deliver(ctx, r.Messages(rep, updates))
}

// deliver sends messages in order, stopping at the first failure, with a fixed
// pause after each successful send to respect downstream rate limits.
func (s *Service) deliver(ctx context.Context, msgs []string) error {
    for i, m := range msgs {
        if err := s.dc.Send(ctx, m); err != nil {
            return fmt.Errorf("delivering message %d/%d: %w", i+1, len(msgs), err)
        }
        if i < len(msgs)-1 { time.Sleep(s.pause) }
    }
    return nil
}
