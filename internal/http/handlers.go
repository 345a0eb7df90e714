/* Copyright (c) 2025 cu-reporter authors
 * SPDX-License-Identifier: BSD-3-Clause */
package http

import (
    "context"
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/rs/zerolog"
)

type service interface {
    RunDailyReport(ctx context.Context, date time.Time, toConsole, toWebhook bool) error
    Yesterday() time.Time
}

type Handlers struct {
    cfg config.Config
    log zerolog.Logger
    svc service
}

func NewHandlers(cfg config.Config, log zerolog.Logger, svc any) *Handlers {
    return &Handlers{cfg: cfg, log: log, svc: svc.(service)}
}

func (h *Handlers) Healthz(c *gin.Context) {
    c.JSON(http.StatusOK, gin.H{"ok": true})
}

// RunNow queues an on-demand report for ?date=YYYY-MM-DD, defaulting to
// yesterday in the business timezone.
func (h *Handlers) RunNow(c *gin.Context) {
    date := h.svc.Yesterday()
    if q := c.Query("date"); q != "" {
        d, err := time.ParseInLocation("2006-01-02", q, h.cfg.Location())
        if err != nil {
            c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
            return
        }
        date = d
    }
    // Run detached from the HTTP request to avoid context cancellation
    go func(){
        if err := h.svc.RunDailyReport(context.Background(), date, false, true); err != nil {
            h.log.Error().Err(err).Msg("admin run failed")
        }
    }()
    c.JSON(http.StatusAccepted, gin.H{"status": "queued", "date": date.Format("2006-01-02")})
}
