/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package clickup

import (
    "encoding/json"
    "time"
)

// Raw response shapes for the ClickUp v2 endpoints this client touches.
// Numeric duration/timestamp fields arrive as string-encoded milliseconds;
// parsing is best-effort with zero/epoch fallbacks (see parseMillis).

type timeEntriesResponse struct {
    Data []rawTimeEntry `json:"data"`
}

type rawTimeEntry struct {
    ID   string   `json:"id"`
    Task *rawTask `json:"task"`
    User rawUser  `json:"user"`

    Duration string `json:"duration"`
    Start    string `json:"start"`
    End      string `json:"end"`

    TaskLocation *struct {
        ListID string `json:"list_id"`
    } `json:"task_location"`
}

type rawUser struct {
    ID       json.Number `json:"id"`
    Username string      `json:"username"`
}

type rawTask struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

type tasksResponse struct {
    Tasks    []rawTaskFull `json:"tasks"`
    LastPage bool          `json:"last_page"`
}

type rawTaskFull struct {
    ID          string  `json:"id"`
    Name        string  `json:"name"`
    DateUpdated string  `json:"date_updated"`
    List        *rawRef `json:"list"`
}

type rawRef struct {
    ID   string `json:"id"`
    Name string `json:"name"`
}

// TaskDetail is the subset of a task detail lookup the enrichment pass needs.
type TaskDetail struct {
    ID       string
    Name     string
    ListName string
}

// parseMillis converts a string-encoded millisecond count. Unparsable input
// degrades to zero rather than failing the fetch.
func parseMillis(s string) time.Duration {
    if s == "" { return 0 }
    var n int64
    if err := json.Unmarshal([]byte(s), &n); err != nil { return 0 }
    return time.Duration(n) * time.Millisecond
}

// parseMillisTime converts a string-encoded millisecond epoch timestamp.
// Unparsable input degrades to the epoch start.
func parseMillisTime(s string) time.Time {
    if s == "" { return time.Unix(0, 0).UTC() }
    var n int64
    if err := json.Unmarshal([]byte(s), &n); err != nil { return time.Unix(0, 0).UTC() }
    return time.UnixMilli(n).UTC()
}
