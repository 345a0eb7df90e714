package main

import (
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/spf13/cobra"

    "github.com/mjblacker/cu-reporter/internal/config"
    internalhttp "github.com/mjblacker/cu-reporter/internal/http"
    "github.com/mjblacker/cu-reporter/internal/jobs"
    "github.com/mjblacker/cu-reporter/internal/logger"
)

var daemonCmd = &cobra.Command{
    Use:   "daemon",
    Short: "Run on a cron schedule with an admin HTTP surface",
    Args:  cobra.NoArgs,
    RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
    cfg, err := config.Load(flagConfig)
    if err != nil { return err }
    log := logger.New(cfg)
    svc := newService(cfg, log)

    cron := jobs.NewCron(cfg, log, svc)
    cron.Start()
    defer cron.Stop()
    log.Info().Str("spec", cfg.ReportCron).Str("tz", cfg.TZOffset).Msg("cron scheduled")

    router := internalhttp.NewRouter(cfg, log, svc)
    errCh := make(chan error, 1)
    go func() { errCh <- router.Run(cfg.HTTPAddr) }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

    select {
    case <-sigCh:
        log.Info().Msg("shutting down...")
    case err := <-errCh:
        if err != nil { log.Error().Err(err).Msg("http server error"); return err }
    }

    time.Sleep(500 * time.Millisecond)
    return nil
}
