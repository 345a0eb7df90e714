package discord

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/rs/zerolog"
)

func TestSend_PostsContentAndUsername(t *testing.T) {
    var got map[string]any
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost { t.Errorf("method = %q", r.Method) }
        if ct := r.Header.Get("Content-Type"); ct != "application/json" { t.Errorf("content-type = %q", ct) }
        if err := json.NewDecoder(r.Body).Decode(&got); err != nil { t.Errorf("decoding body: %v", err) }
        w.WriteHeader(http.StatusNoContent)
    }))
    defer srv.Close()

    c := NewClient(config.Config{DiscordWebhookURL: srv.URL, DiscordUsername: "cu-reporter"}, zerolog.Nop())
    if err := c.Send(context.Background(), "hello"); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if got["content"] != "hello" || got["username"] != "cu-reporter" {
        t.Fatalf("payload = %#v", got)
    }
}

func TestSend_ErrorOnNonSuccess(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
    }))
    defer srv.Close()

    c := NewClient(config.Config{DiscordWebhookURL: srv.URL, DiscordUsername: "cu-reporter"}, zerolog.Nop())
    if err := c.Send(context.Background(), "hello"); err == nil {
        t.Fatalf("expected error on 429")
    }
}

func TestSend_MissingWebhookURL(t *testing.T) {
    c := NewClient(config.Config{}, zerolog.Nop())
    if err := c.Send(context.Background(), "hello"); err == nil {
        t.Fatalf("expected error with no webhook url")
    }
}
