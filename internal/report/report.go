/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "fmt"
    "sort"
    "time"

    "github.com/mjblacker/cu-reporter/internal/domain"
)

// Build groups time entries by (userID, userName), sums per-user durations and
// orders summaries by descending total. Ties keep first-appearance order.
// Task updates are not folded in here; the renderer cross-references them
// against tracked task IDs directly.
func Build(date time.Time, entries []domain.TimeEntry) domain.DailyReport {
    type userKey struct{ id, name string }
    idx := map[userKey]int{}
    rep := domain.DailyReport{Date: date}
    for _, e := range entries {
        k := userKey{e.UserID, e.UserName}
        i, ok := idx[k]
        if !ok {
            i = len(rep.Summaries)
            idx[k] = i
            rep.Summaries = append(rep.Summaries, domain.PersonSummary{UserID: e.UserID, UserName: e.UserName})
        }
        s := &rep.Summaries[i]
        s.Entries = append(s.Entries, e)
        s.TotalTrackedTime += e.Duration
    }
    for _, s := range rep.Summaries { rep.TotalTracked += s.TotalTrackedTime }
    sort.SliceStable(rep.Summaries, func(i, j int) bool {
        return rep.Summaries[i].TotalTrackedTime > rep.Summaries[j].TotalTrackedTime
    })
    return rep
}

// FormatDuration renders a span as "2h 15m", "45m" or "30s". Units are always
// floored; once minutes reach 1 the seconds component is dropped.
func FormatDuration(d time.Duration) string {
    if d < 0 { d = 0 }
    totalSec := int64(d / time.Second)
    h := totalSec / 3600
    m := (totalSec % 3600) / 60
    if h > 0 { return fmt.Sprintf("%dh %dm", h, m) }
    if m > 0 { return fmt.Sprintf("%dm", m) }
    return fmt.Sprintf("%ds", totalSec)
}
