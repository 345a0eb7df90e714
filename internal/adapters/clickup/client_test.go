package clickup

import (
    "context"
    "fmt"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/rs/zerolog"
)

func testClient(url string) *Client {
    cfg := config.Config{ClickUpBaseURL: url, ClickUpAPIKey: "pk_test", ClickUpTeamID: "321", HTTPTimeout: 5 * time.Second}
    return NewClient(cfg, zerolog.Nop())
}

func TestTimeEntriesWithinRange_ParsesAndDegrades(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if got := r.Header.Get("Authorization"); got != "pk_test" {
            t.Errorf("Authorization = %q", got)
        }
        if r.URL.Path != "/team/321/time_entries" {
            t.Errorf("path = %q", r.URL.Path)
        }
        if r.URL.Query().Get("start_date") == "" || r.URL.Query().Get("end_date") == "" {
            t.Errorf("missing window params: %q", r.URL.RawQuery)
        }
        fmt.Fprint(w, `{"data":[
            {"id":"e1","task":{"id":"t1","name":"Task A"},"user":{"id":7,"username":"Alice"},"duration":"1800000","start":"1756300800000","end":"1756302600000"},
            {"id":"e2","user":{"id":7,"username":"Alice"},"duration":"not-a-number","start":"garbage"},
            {"id":"e3","user":{"id":8,"username":"Bob"},"duration":"-120000","start":"1756300800000"}
        ]}`)
    }))
    defer srv.Close()

    entries, err := testClient(srv.URL).TimeEntriesWithinRange(context.Background(), time.UnixMilli(1756256400000), time.UnixMilli(1756342799999))
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if len(entries) != 3 { t.Fatalf("got %d entries, want 3", len(entries)) }

    e1 := entries[0]
    if e1.TaskID != "t1" || e1.TaskName != "Task A" || e1.UserID != "7" || e1.UserName != "Alice" {
        t.Fatalf("e1 = %#v", e1)
    }
    if e1.Duration != 30*time.Minute {
        t.Fatalf("e1 duration = %v, want 30m", e1.Duration)
    }
    if e1.End == nil || e1.End.Sub(e1.Start) != 30*time.Minute {
        t.Fatalf("e1 interval wrong: %#v", e1)
    }

    // malformed numeric fields degrade to zero/epoch, never abort the fetch
    e2 := entries[1]
    if e2.Duration != 0 { t.Fatalf("e2 duration = %v, want 0", e2.Duration) }
    if !e2.Start.Equal(time.Unix(0, 0)) { t.Fatalf("e2 start = %v, want epoch", e2.Start) }
    if e2.TaskID != "" || e2.End != nil { t.Fatalf("e2 = %#v", e2) }

    // running timers report negative durations; clamp to zero
    if entries[2].Duration != 0 { t.Fatalf("e3 duration = %v, want 0", entries[2].Duration) }
}

func TestTimeEntriesWithinRange_APIError(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusUnauthorized)
        fmt.Fprint(w, `{"err":"Token invalid"}`)
    }))
    defer srv.Close()
    _, err := testClient(srv.URL).TimeEntriesWithinRange(context.Background(), time.Now(), time.Now())
    if err == nil { t.Fatalf("expected error on 401") }
}

func TestTasksUpdatedWithin_PagesUntilEmpty(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Query().Get("include_closed") != "true" || r.URL.Query().Get("subtasks") != "true" {
            t.Errorf("missing include flags: %q", r.URL.RawQuery)
        }
        switch r.URL.Query().Get("page") {
        case "0":
            fmt.Fprint(w, `{"tasks":[
                {"id":"t1","name":"Task A","date_updated":"1756300800000","list":{"id":"l1","name":"Sprint 5"}},
                {"id":"t2","name":"Task B","date_updated":"1756300900000"}
            ]}`)
        default:
            fmt.Fprint(w, `{"tasks":[],"last_page":true}`)
        }
    }))
    defer srv.Close()

    updates, err := testClient(srv.URL).TasksUpdatedWithin(context.Background(), time.UnixMilli(0), time.UnixMilli(1))
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if len(updates) != 2 { t.Fatalf("got %d updates, want 2", len(updates)) }
    if updates[0].ListName != "Sprint 5" || updates[1].ListName != "" {
        t.Fatalf("list names wrong: %#v", updates)
    }
    if updates[0].UserID != "unknown" || updates[0].UserName != "unknown" {
        t.Fatalf("updates carry no attribution, want unknown: %#v", updates[0])
    }
    if updates[0].Change != "updated" {
        t.Fatalf("change tag = %q", updates[0].Change)
    }
}

func TestTask_Detail(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.URL.Path != "/task/abc" { t.Errorf("path = %q", r.URL.Path) }
        fmt.Fprint(w, `{"id":"abc","name":"Task A","list":{"id":"l9","name":"Sprint 5"}}`)
    }))
    defer srv.Close()

    d, err := testClient(srv.URL).Task(context.Background(), "abc")
    if err != nil { t.Fatalf("unexpected error: %v", err) }
    if d.ListName != "Sprint 5" || d.Name != "Task A" {
        t.Fatalf("detail = %#v", d)
    }
}
