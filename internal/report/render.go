/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package report

import (
    "fmt"
    "strings"
    "time"

    "github.com/mjblacker/cu-reporter/internal/domain"
)

// MaxMessageLen is the per-message content limit enforced on webhook delivery.
const MaxMessageLen = 2000

const noActivity = "No activity recorded for this day."

// Renderer turns a DailyReport plus the day's task updates into a console block
// and size-bounded delivery messages. The exclusion lists apply to task names in
// the updated-tasks section only, case-sensitive.
type Renderer struct {
    ExcludePrefixes []string
    ExcludeContains []string
}

// Untracked filters updates down to tasks with no tracked time at all on the
// day: any update whose task id appears in a time entry is dropped, then the
// name exclusion lists apply. Duplicate task ids keep the first occurrence.
func (r Renderer) Untracked(rep domain.DailyReport, updates []domain.TaskUpdate) []domain.TaskUpdate {
    tracked := map[string]struct{}{}
    for _, s := range rep.Summaries {
        for _, e := range s.Entries {
            if e.TaskID != "" { tracked[e.TaskID] = struct{}{} }
        }
    }
    seen := map[string]struct{}{}
    var out []domain.TaskUpdate
    for _, u := range updates {
        if _, ok := tracked[u.TaskID]; ok { continue }
        if _, dup := seen[u.TaskID]; dup { continue }
        if r.excluded(u.TaskName) { continue }
        seen[u.TaskID] = struct{}{}
        out = append(out, u)
    }
    return out
}

func (r Renderer) excluded(name string) bool {
    for _, p := range r.ExcludePrefixes {
        if p != "" && strings.HasPrefix(name, p) { return true }
    }
    for _, c := range r.ExcludeContains {
        if c != "" && strings.Contains(name, c) { return true }
    }
    return false
}

// Console renders the full single-block text form.
func (r Renderer) Console(rep domain.DailyReport, updates []domain.TaskUpdate) string {
    untracked := r.Untracked(rep, updates)
    if len(rep.Summaries) == 0 && len(untracked) == 0 { return noActivity }

    b := &strings.Builder{}
    fmt.Fprintf(b, "Daily report for %s\n\n", rep.Date.Format("Monday, 2 January 2006"))
    b.WriteString("SUMMARY\n")
    if len(rep.Summaries) == 0 {
        b.WriteString("No time tracked.\n")
    } else {
        for _, s := range rep.Summaries {
            fmt.Fprintf(b, "%s: %s tracked across %d task(s)\n", s.UserName, FormatDuration(s.TotalTrackedTime), s.DistinctTaskCount())
        }
    }
    fmt.Fprintf(b, "Total tracked: %s\n", FormatDuration(rep.TotalTracked))
    fmt.Fprintf(b, "Updated tasks: %d\n", len(untracked))

    if len(rep.Summaries) > 0 {
        b.WriteString("\nTIME TRACKING DETAILS\n")
        for _, s := range rep.Summaries {
            fmt.Fprintf(b, "%s\n", s.UserName)
            for _, lg := range groupEntries(s.Entries) {
                fmt.Fprintf(b, "  %s\n", lg.name)
                for _, t := range lg.tasks {
                    fmt.Fprintf(b, "    %s: %s\n", t.name, FormatDuration(t.total))
                }
            }
        }
    }
    if len(untracked) > 0 {
        b.WriteString("\nUPDATED TASKS\n")
        for _, lg := range groupUpdates(untracked) {
            fmt.Fprintf(b, "%s\n", lg.name)
            for _, t := range lg.tasks {
                fmt.Fprintf(b, "  %s\n", t.name)
            }
        }
    }
    return b.String()
}

// Messages renders the markdown delivery form, enforcing MaxMessageLen per
// message: one message when everything fits, otherwise a two-part split
// (header+summary+details, then updated tasks) with blank or oversized parts
// dropped, and a truncated header+summary fallback when nothing survives.
func (r Renderer) Messages(rep domain.DailyReport, updates []domain.TaskUpdate) []string {
    untracked := r.Untracked(rep, updates)
    if len(rep.Summaries) == 0 && len(untracked) == 0 { return []string{noActivity} }

    head := r.headSection(rep, untracked)
    details := detailsSection(rep)
    upds := updatesSection(untracked)

    full := joinSections(head, details, upds)
    if runeLen(full) <= MaxMessageLen { return []string{full} }

    var out []string
    for _, part := range []string{joinSections(head, details), upds} {
        if strings.TrimSpace(part) == "" { continue }
        if runeLen(part) > MaxMessageLen { continue }
        out = append(out, part)
    }
    if len(out) == 0 { out = []string{truncateRunes(head, MaxMessageLen)} }
    return out
}

func (r Renderer) headSection(rep domain.DailyReport, untracked []domain.TaskUpdate) string {
    b := &strings.Builder{}
    fmt.Fprintf(b, "**Daily report for %s**\n\n", rep.Date.Format("Monday, 2 January 2006"))
    b.WriteString("**Summary**\n")
    if len(rep.Summaries) == 0 {
        b.WriteString("No time tracked.\n")
    } else {
        for _, s := range rep.Summaries {
            fmt.Fprintf(b, "%s: %s tracked across %d task(s)\n", s.UserName, FormatDuration(s.TotalTrackedTime), s.DistinctTaskCount())
        }
    }
    fmt.Fprintf(b, "Total tracked: %s\n", FormatDuration(rep.TotalTracked))
    fmt.Fprintf(b, "Updated tasks: %d", len(untracked))
    return b.String()
}

func detailsSection(rep domain.DailyReport) string {
    if len(rep.Summaries) == 0 { return "" }
    b := &strings.Builder{}
    b.WriteString("**Time tracking details**")
    for _, s := range rep.Summaries {
        fmt.Fprintf(b, "\n**%s**", s.UserName)
        for _, lg := range groupEntries(s.Entries) {
            fmt.Fprintf(b, "\n_%s_", lg.name)
            for _, t := range lg.tasks {
                fmt.Fprintf(b, "\n- %s: %s", t.name, FormatDuration(t.total))
            }
        }
    }
    return b.String()
}

func updatesSection(untracked []domain.TaskUpdate) string {
    if len(untracked) == 0 { return "" }
    b := &strings.Builder{}
    b.WriteString("**Updated tasks**")
    for _, lg := range groupUpdates(untracked) {
        fmt.Fprintf(b, "\n_%s_", lg.name)
        for _, t := range lg.tasks {
            fmt.Fprintf(b, "\n- %s", t.name)
        }
    }
    return b.String()
}

type taskLine struct {
    name  string
    total time.Duration
}

type listGroup struct {
    name  string
    tasks []taskLine
}

// groupEntries nests one user's entries as list -> task -> summed duration,
// both levels in first-appearance order.
func groupEntries(entries []domain.TimeEntry) []listGroup {
    var groups []listGroup
    listIdx := map[string]int{}
    taskIdx := map[string]int{} // listName + "\x00" + taskKey
    for _, e := range entries {
        list := e.ListName
        if list == "" { list = "(no list)" }
        li, ok := listIdx[list]
        if !ok {
            li = len(groups)
            listIdx[list] = li
            groups = append(groups, listGroup{name: list})
        }
        taskName := e.TaskName
        if taskName == "" { taskName = "(no task)" }
        tk := list + "\x00" + e.TaskID + "\x00" + taskName
        ti, ok := taskIdx[tk]
        if !ok {
            ti = len(groups[li].tasks)
            taskIdx[tk] = ti
            groups[li].tasks = append(groups[li].tasks, taskLine{name: taskName})
        }
        groups[li].tasks[ti].total += e.Duration
    }
    return groups
}

// groupUpdates nests untracked updates as list -> task name, first-appearance
// order.
func groupUpdates(updates []domain.TaskUpdate) []listGroup {
    var groups []listGroup
    listIdx := map[string]int{}
    for _, u := range updates {
        list := u.ListName
        if list == "" { list = "(no list)" }
        li, ok := listIdx[list]
        if !ok {
            li = len(groups)
            listIdx[list] = li
            groups = append(groups, listGroup{name: list})
        }
        groups[li].tasks = append(groups[li].tasks, taskLine{name: u.TaskName})
    }
    return groups
}

func joinSections(parts ...string) string {
    var kept []string
    for _, p := range parts {
        if strings.TrimSpace(p) == "" { continue }
        kept = append(kept, p)
    }
    return strings.Join(kept, "\n\n")
}

func runeLen(s string) int { return len([]rune(s)) }

func truncateRunes(s string, max int) string {
    r := []rune(s)
    if len(r) <= max { return s }
    return string(r[:max])
}
