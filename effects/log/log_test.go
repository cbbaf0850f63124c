package log_test

import (
	"context"
	"testing"

	"github.com/on-the-ground/composable_go/effects"
	"github.com/on-the-ground/composable_go/effects/log"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogEffect_WritesOnlyWhenSubscribed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	e := log.Effect[int](logger, log.LogPayload{
		Level:   log.LogWarn,
		Message: "disk almost full",
		Fields:  map[string]interface{}{"free": 3},
	})
	assert.Equal(t, 0, logs.Len())

	out := effects.Collect(context.Background(), e)
	assert.Empty(t, out)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "disk almost full", entries[0].Message)
		assert.EqualValues(t, 3, entries[0].ContextMap()["free"])
	}
}

func TestWrite_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)

	tests := []struct {
		level log.LogLevel
		want  zapcore.Level
	}{
		{log.LogInfo, zapcore.InfoLevel},
		{log.LogWarn, zapcore.WarnLevel},
		{log.LogError, zapcore.ErrorLevel},
		{log.LogDebug, zapcore.DebugLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		log.Write(logger, log.LogPayload{Level: tt.level, Message: "m"})
	}

	entries := logs.AllUntimed()
	if assert.Len(t, entries, len(tests)) {
		for i, tt := range tests {
			assert.Equal(t, tt.want, entries[i].Level)
		}
	}
}

func TestNewTestLogger(t *testing.T) {
	logger := log.NewTestLogger()
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestLogLevel_ZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.ErrorLevel, log.LogError.ZapLevel())
	assert.Equal(t, zapcore.InfoLevel, log.LogLevel("verbose").ZapLevel())
}
