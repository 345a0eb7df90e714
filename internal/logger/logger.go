package logger

import (
    "os"
    "time"

    "github.com/mjblacker/cu-reporter/internal/config"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

func New(cfg config.Config) zerolog.Logger {
    level := zerolog.InfoLevel
    if cfg.Debug { level = zerolog.DebugLevel }
    if cfg.AppEnv == "dev" {
        output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
        logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
        log.Logger = logger
        return logger
    }
    zerolog.TimeFieldFormat = time.RFC3339
    logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
    log.Logger = logger
    return logger
}
