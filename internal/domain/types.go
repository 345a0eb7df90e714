package domain

import "time"

// ChangeType tags what happened to a task on the report day.
type ChangeType string

const (
    ChangeUpdated ChangeType = "updated"
)

// TimeEntry is one tracked interval attributed to a user and, optionally, a task.
// ListName may be empty until the enrichment pass resolves it from the task detail.
type TimeEntry struct {
    ID       string
    TaskID   string
    TaskName string
    ListName string
    UserID   string
    UserName string
    Duration time.Duration
    Start    time.Time
    End      *time.Time
}

// TaskUpdate records that a task was modified on the target day, independent of
// any time tracking. UserID/UserName are "unknown" when the source API gives no
// attribution.
type TaskUpdate struct {
    TaskID    string
    TaskName  string
    ListName  string
    UserID    string
    UserName  string
    UpdatedAt time.Time
    Change    ChangeType
}

// PersonSummary is the per-user aggregate for one report. TaskUpdates stays
// empty: updates are cross-referenced against tracked task IDs by the renderer,
// not attached per user.
type PersonSummary struct {
    UserID           string
    UserName         string
    Entries          []TimeEntry
    TaskUpdates      []TaskUpdate
    TotalTrackedTime time.Duration
}

// DailyReport is the aggregate root for one calendar date. Summaries are ordered
// by descending total tracked time and their totals sum to TotalTracked exactly.
type DailyReport struct {
    Date         time.Time
    Summaries    []PersonSummary
    TotalTracked time.Duration
}

// DistinctTaskCount reports how many distinct tasks the user touched; entries
// without a task id collapse into per-name buckets.
func (p PersonSummary) DistinctTaskCount() int {
    seen := map[string]struct{}{}
    for _, e := range p.Entries {
        key := e.TaskID
        if key == "" { key = "~" + e.TaskName }
        seen[key] = struct{}{}
    }
    return len(seen)
}
