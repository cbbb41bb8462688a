package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewProductionLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(levelFromEnv())
	return config.Build()
}

func Sugar(logger *zap.Logger) *zap.SugaredLogger {
	return logger.Sugar()
}

func levelFromEnv() zapcore.Level {
	level, err := zapcore.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
