package main

import (
    "context"
    "fmt"
    "os"
    "time"

    "github.com/rs/zerolog"
    "github.com/spf13/cobra"

    "github.com/mjblacker/cu-reporter/internal/adapters/clickup"
    "github.com/mjblacker/cu-reporter/internal/adapters/discord"
    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/mjblacker/cu-reporter/internal/logger"
    "github.com/mjblacker/cu-reporter/internal/services"
)

var (
    flagConfig  string
    flagDate    string
    flagConsole bool
)

var rootCmd = &cobra.Command{
    Use:   "cu-reporter",
    Short: "Daily ClickUp time-tracking digest for Discord",
    Long: `cu-reporter fetches one calendar day of time entries and task updates
from ClickUp, aggregates them per user and delivers the report to a
Discord webhook, or prints it to the console.`,
    Args: cobra.NoArgs,
    RunE: runOnce,
}

// Execute is the entry point called from main.
func Execute() {
    if err := rootCmd.Execute(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}

func init() {
    rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default ~/.config/cu-reporter/config.toml)")
    rootCmd.Flags().StringVar(&flagDate, "date", "", "Report date as YYYY-MM-DD (default yesterday in the business timezone)")
    rootCmd.Flags().BoolVar(&flagConsole, "console", false, "Print the report instead of delivering to the webhook")
    rootCmd.AddCommand(daemonCmd)
}

func newService(cfg config.Config, log zerolog.Logger) *services.Service {
    cu := clickup.NewClient(cfg, log)
    dc := discord.NewClient(cfg, log)
    return services.New(cfg, log, cu, dc)
}

func runOnce(cmd *cobra.Command, args []string) error {
    cfg, err := config.Load(flagConfig)
    if err != nil { return err }
    svc := newService(cfg, logger.New(cfg))

    date := svc.Yesterday()
    if flagDate != "" {
        date, err = time.ParseInLocation("2006-01-02", flagDate, cfg.Location())
        if err != nil { return fmt.Errorf("parsing --date: %w", err) }
    }
    return svc.RunDailyReport(context.Background(), date, flagConsole, !flagConsole)
}
