package config

import (
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger: human readable in dev, JSON
// everywhere else.
func NewLogger(cfg Config) (*zap.Logger, error) {
    var zc zap.Config
    if cfg.Env == "dev" {
        zc = zap.NewDevelopmentConfig()
    } else {
        zc = zap.NewProductionConfig()
        zc.EncoderConfig.TimeKey = "time"
        zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
    }
    lvl, err := zapcore.ParseLevel(cfg.LogLevel)
    if err != nil {
        lvl = zapcore.InfoLevel
    }
    zc.Level = zap.NewAtomicLevelAt(lvl)
    return zc.Build(zap.Fields(zap.String("env", cfg.Env)))
}
