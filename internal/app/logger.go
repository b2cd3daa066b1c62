package app

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "parkflow-bot"

// NewLogger собирает логгер для окружения env. Пустой level оставляет
// уровень окружения: info в production, debug в остальных.
func NewLogger(env, level string) (*zap.Logger, error) {
	config := loggerConfig(env)

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
		}
		config.Level = lvl
	}

	logger, err := config.Build(zap.Fields(
		zap.String("service", serviceName),
		zap.String("env", env),
	))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func loggerConfig(env string) zap.Config {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "time"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	}

	config.OutputPaths = []string{"stdout"}
	return config
}
