package jobs

import (
    "context"
    "sync/atomic"
    "time"

    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"
)

type service interface { RunScheduled(ctx context.Context) error }

type Cron struct {
    cfg     config.Config
    log     zerolog.Logger
    svc     service
    c       *cron.Cron
    running atomic.Bool
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service) *Cron {
    c := cron.New(cron.WithLocation(cfg.Location()), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, c: c}
    _, _ = c.AddFunc(cfg.ReportCron, cr.daily)
    return cr
}

func (cr *Cron) Start(){ cr.c.Start() }
func (cr *Cron) Stop(){ cr.c.Stop() }

func (cr *Cron) daily(){
    if !cr.running.CompareAndSwap(false, true) {
        cr.log.Info().Msg("cron: previous run still in progress")
        return
    }
    defer cr.running.Store(false)
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute); defer cancel()
    cr.log.Info().Msg("cron: daily report")
    if err := cr.svc.RunScheduled(ctx); err != nil { cr.log.Error().Err(err).Msg("cron: daily report failed") }
}
