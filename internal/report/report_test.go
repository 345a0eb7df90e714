package report

import (
    "testing"
    "time"

    "github.com/mjblacker/cu-reporter/internal/domain"
)

func entry(user, name, taskID, taskName, list string, d time.Duration) domain.TimeEntry {
    return domain.TimeEntry{ID: taskID + name, UserID: user, UserName: name, TaskID: taskID, TaskName: taskName, ListName: list, Duration: d}
}

func TestBuild_TotalsMatchGrandTotal(t *testing.T) {
    entries := []domain.TimeEntry{
        entry("1", "Alice", "a", "Task A", "L1", 30*time.Minute),
        entry("2", "Bob", "b", "Task B", "L1", 45*time.Minute+30*time.Second),
        entry("1", "Alice", "c", "Task C", "L2", 12*time.Minute+345*time.Millisecond),
        entry("3", "Carol", "", "", "", 90*time.Second),
    }
    rep := Build(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), entries)

    var sum time.Duration
    for _, s := range rep.Summaries { sum += s.TotalTrackedTime }
    if sum != rep.TotalTracked {
        t.Fatalf("per-user totals sum %v != grand total %v", sum, rep.TotalTracked)
    }
    if rep.TotalTracked.Milliseconds() != (30*60+45*60+30+12*60)*1000+345+90*1000 {
        t.Fatalf("unexpected grand total %v", rep.TotalTracked)
    }
}

func TestBuild_SortsDescendingKeepingFirstAppearanceOnTies(t *testing.T) {
    entries := []domain.TimeEntry{
        entry("1", "Alice", "a", "A", "L", 10*time.Minute),
        entry("2", "Bob", "b", "B", "L", 30*time.Minute),
        entry("3", "Carol", "c", "C", "L", 10*time.Minute),
    }
    rep := Build(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), entries)
    got := []string{}
    for _, s := range rep.Summaries { got = append(got, s.UserName) }
    want := []string{"Bob", "Alice", "Carol"}
    for i := range want {
        if got[i] != want[i] { t.Fatalf("order = %v, want %v", got, want) }
    }
}

func TestBuild_GroupsByUserIDAndName(t *testing.T) {
    entries := []domain.TimeEntry{
        entry("1", "Alice", "a", "A", "L", 10*time.Minute),
        entry("1", "Alice", "b", "B", "L", 20*time.Minute),
    }
    rep := Build(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), entries)
    if len(rep.Summaries) != 1 {
        t.Fatalf("expected 1 summary, got %d", len(rep.Summaries))
    }
    if rep.Summaries[0].TotalTrackedTime != 30*time.Minute {
        t.Fatalf("total = %v, want 30m", rep.Summaries[0].TotalTrackedTime)
    }
    if n := rep.Summaries[0].DistinctTaskCount(); n != 2 {
        t.Fatalf("distinct tasks = %d, want 2", n)
    }
}

func TestFormatDuration(t *testing.T) {
    tests := []struct {
        ms   int64
        want string
    }{
        {0, "0s"},
        {30000, "30s"},
        {59999, "59s"},
        {60000, "1m"},
        {90000, "1m"},
        {2700000, "45m"},
        {3599999, "59m"},
        {3600000, "1h 0m"},
        {3725000, "1h 2m"},
        {8100000, "2h 15m"},
    }
    for _, tt := range tests {
        got := FormatDuration(time.Duration(tt.ms) * time.Millisecond)
        if got != tt.want {
            t.Errorf("FormatDuration(%dms) = %q, want %q", tt.ms, got, tt.want)
        }
    }
}
