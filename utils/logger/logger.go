package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"guardianearth/internal/config"
)

func NewLogger(cfg *config.Config) *zap.Logger {
	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Errorf("Failed to build logger: %v", err))
	}
	return logger
}

// GooseZapLogger adapts goose's logger interface onto zap.
type gooseLogger struct {
	logger *zap.Logger
}

func GooseZapLogger(logger *zap.Logger) *gooseLogger {
	return &gooseLogger{logger: logger.With(zap.String("component", "goose"))}
}

func (g *gooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Info(fmt.Sprintf(format, v...))
}

func (g *gooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Fatal(fmt.Sprintf(format, v...))
}
