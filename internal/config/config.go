/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "fmt"
    "os"
    "path/filepath"
    "strconv"
    "strings"
    "time"

    "github.com/pelletier/go-toml/v2"
)

type Config struct {
    AppEnv string `toml:"app_env"`
    Debug  bool   `toml:"debug"`

    ClickUpAPIKey  string `toml:"clickup_api_key"`
    ClickUpTeamID  string `toml:"clickup_team_id"`
    ClickUpBaseURL string `toml:"clickup_base_url"`

    DiscordWebhookURL string `toml:"discord_webhook_url"`
    DiscordUsername   string `toml:"discord_username"`

    // TZOffset is the fixed business-timezone offset used to window "a day",
    // e.g. "+10:00".
    TZOffset string `toml:"tz_offset"`

    // Name filters applied to the updated-tasks section, case-sensitive.
    ExcludeTaskPrefixes []string `toml:"exclude_task_prefixes"`
    ExcludeTaskContains []string `toml:"exclude_task_contains"`

    ReportCron    string        `toml:"report_cron"`
    HTTPAddr      string        `toml:"http_addr"`
    HTTPTimeout   time.Duration `toml:"-"`
    WorkersEnrich int           `toml:"workers_enrich"`

    // Skip webhook delivery for empty scheduled reports on Sunday/Monday.
    SkipQuietDays bool `toml:"skip_quiet_days"`
}

func defaults() Config {
    return Config{
        AppEnv:          "dev",
        ClickUpBaseURL:  "https://api.clickup.com/api/v2",
        DiscordUsername: "cu-reporter",
        TZOffset:        "+10:00",
        ReportCron:      "0 8 * * *",
        HTTPAddr:        ":8080",
        HTTPTimeout:     15 * time.Second,
        WorkersEnrich:   6,
        SkipQuietDays:   true,
    }
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func atoi(key string, def int) int { v := os.Getenv(key); if v == "" { return def }; n, err := strconv.Atoi(v); if err != nil { return def }; return n }
func dur(key string, def time.Duration) time.Duration { v := os.Getenv(key); if v == "" { return def }; d, err := time.ParseDuration(v); if err != nil { return def }; return d }
func boolenv(key string, def bool) bool { v := strings.ToLower(strings.TrimSpace(os.Getenv(key))); if v == "" { return def }; return v == "1" || v == "true" || v == "yes" }

func parseStrings(csv string) []string {
    if csv == "" { return nil }
    parts := strings.Split(csv, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p == "" { continue }
        out = append(out, p)
    }
    return out
}

// Path returns the config file location, honoring CU_REPORTER_CONFIG.
func Path() (string, error) {
    if p := os.Getenv("CU_REPORTER_CONFIG"); p != "" { return p, nil }
    home, err := os.UserHomeDir()
    if err != nil { return "", fmt.Errorf("finding home directory: %w", err) }
    return filepath.Join(home, ".config", "cu-reporter", "config.toml"), nil
}

// Load merges three layers: built-in defaults, the TOML config file (created
// with defaults on first run), then environment variable overrides.
func Load(path string) (Config, error) {
    cfg := defaults()

    if path == "" {
        p, err := Path()
        if err != nil { return cfg, err }
        path = p
    }
    data, err := os.ReadFile(path)
    if os.IsNotExist(err) {
        if werr := writeDefault(path); werr != nil { return cfg, werr }
    } else if err != nil {
        return cfg, fmt.Errorf("reading config %s: %w", path, err)
    } else {
        if err := toml.Unmarshal(data, &cfg); err != nil {
            return cfg, fmt.Errorf("parsing config %s: %w", path, err)
        }
    }

    cfg.AppEnv = getenv("APP_ENV", cfg.AppEnv)
    cfg.Debug = boolenv("DEBUG", cfg.Debug)
    cfg.ClickUpAPIKey = getenv("CLICKUP_API_KEY", cfg.ClickUpAPIKey)
    cfg.ClickUpTeamID = getenv("CLICKUP_TEAM_ID", cfg.ClickUpTeamID)
    cfg.ClickUpBaseURL = getenv("CLICKUP_BASE_URL", cfg.ClickUpBaseURL)
    cfg.DiscordWebhookURL = getenv("DISCORD_WEBHOOK_URL", cfg.DiscordWebhookURL)
    cfg.DiscordUsername = getenv("DISCORD_USERNAME", cfg.DiscordUsername)
    cfg.TZOffset = getenv("REPORT_TZ_OFFSET", cfg.TZOffset)
    if v := os.Getenv("EXCLUDE_TASK_PREFIXES"); v != "" { cfg.ExcludeTaskPrefixes = parseStrings(v) }
    if v := os.Getenv("EXCLUDE_TASK_CONTAINS"); v != "" { cfg.ExcludeTaskContains = parseStrings(v) }
    cfg.ReportCron = getenv("CRON_SPEC", cfg.ReportCron)
    cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
    cfg.HTTPTimeout = dur("HTTP_TIMEOUT", cfg.HTTPTimeout)
    cfg.WorkersEnrich = atoi("WORKERS_ENRICH", cfg.WorkersEnrich)
    cfg.SkipQuietDays = boolenv("SKIP_QUIET_DAYS", cfg.SkipQuietDays)

    return cfg, nil
}

func writeDefault(path string) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return fmt.Errorf("creating config directory: %w", err)
    }
    data, err := toml.Marshal(defaults())
    if err != nil { return err }
    if err := os.WriteFile(path, data, 0o600); err != nil {
        return fmt.Errorf("writing default config: %w", err)
    }
    return nil
}

// Location resolves TZOffset into a fixed zone. Malformed offsets fall back to
// the +10:00 default.
func (c Config) Location() *time.Location {
    loc, err := parseOffset(c.TZOffset)
    if err != nil { loc, _ = parseOffset("+10:00") }
    return loc
}

func parseOffset(s string) (*time.Location, error) {
    s = strings.TrimSpace(s)
    if s == "" || (s[0] != '+' && s[0] != '-') {
        return nil, fmt.Errorf("offset %q must start with + or -", s)
    }
    sign := 1
    if s[0] == '-' { sign = -1 }
    hhmm := strings.SplitN(s[1:], ":", 2)
    hh, err := strconv.Atoi(hhmm[0])
    if err != nil || hh > 14 { return nil, fmt.Errorf("bad offset hours in %q", s) }
    mm := 0
    if len(hhmm) == 2 {
        mm, err = strconv.Atoi(hhmm[1])
        if err != nil || mm > 59 { return nil, fmt.Errorf("bad offset minutes in %q", s) }
    }
    return time.FixedZone("UTC"+s, sign*(hh*3600+mm*60)), nil
}
