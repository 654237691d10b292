package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatJson    = "json"
)

// New builds a development logger for the console format and a production one otherwise.
// An unknown level falls back to info.
func New(level, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if format == FormatConsole {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.Encoding = FormatConsole
	} else {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Encoding = FormatJson
	}

	if level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}
