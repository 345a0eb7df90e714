/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package discord

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "time"

    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/rs/zerolog"
)

type Client struct {
    webhookURL string
    username   string
    http       *http.Client
    log        zerolog.Logger
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
    return &Client{
        webhookURL: cfg.DiscordWebhookURL,
        username:   cfg.DiscordUsername,
        http:       &http.Client{ Timeout: 10 * time.Second },
        log:        log,
    }
}

// Send posts one message to the webhook as {content, username}.
func (c *Client) Send(ctx context.Context, content string) error {
    if c.webhookURL == "" { return fmt.Errorf("discord: missing webhook url") }
    body := map[string]any{"content": content, "username": c.username}
    b, _ := json.Marshal(body)
    req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewReader(b))
    if err != nil { return err }
    req.Header.Set("Content-Type", "application/json")
    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        bodyBytes, _ := io.ReadAll(resp.Body)
        return fmt.Errorf("discord webhook status=%d body=%s", resp.StatusCode, string(bodyBytes))
    }
    c.log.Debug().Int("chars", len(content)).Msg("discord: message sent")
    return nil
}
