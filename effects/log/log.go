// Package log turns zap writes into effects, so reducers can describe a log
// line without performing it.
package log

import (
	"os"

	"github.com/on-the-ground/composable_go/effects"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
	LogDebug LogLevel = "debug"
)

var zapLevels = map[LogLevel]zapcore.Level{
	LogInfo:  zapcore.InfoLevel,
	LogWarn:  zapcore.WarnLevel,
	LogError: zapcore.ErrorLevel,
	LogDebug: zapcore.DebugLevel,
}

// ZapLevel maps l to its zap level. Unknown levels map to info.
func (l LogLevel) ZapLevel() zapcore.Level {
	if lvl, ok := zapLevels[l]; ok {
		return lvl
	}
	return zapcore.InfoLevel
}

// LogPayload is one log line: level, message and structured fields.
type LogPayload struct {
	Level   LogLevel
	Message string
	Fields  map[string]interface{}
}

func (p LogPayload) zapFields() []zap.Field {
	fields := make([]zap.Field, 0, len(p.Fields))
	for k, v := range p.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	return fields
}

// Write logs payload on logger right away.
func Write(logger *zap.Logger, payload LogPayload) {
	logger.Log(payload.Level.ZapLevel(), payload.Message, payload.zapFields()...)
}

// Effect writes payload when subscribed and emits nothing.
// Harnesses that never run effects never write it.
func Effect[A any](logger *zap.Logger, payload LogPayload) effects.Effect[A] {
	return effects.FireAndForget[A](func() {
		Write(logger, payload)
	})
}

// NewTestLogger logs everything from debug up to stdout in console format.
func NewTestLogger() *zap.Logger {
	return zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zapcore.DebugLevel,
	))
}

// Sync flushes logger. A failed flush is reported on logger itself.
func Sync(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		logger.Warn("logger sync failed", zap.Error(err))
	}
}
