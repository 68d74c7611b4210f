package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/imRyuukii/LoginPage/internal/config"
	"github.com/imRyuukii/LoginPage/pkg/constants"
	"github.com/imRyuukii/LoginPage/pkg/logger"
)

func TestZapLogger_FieldsAndMasking(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).WithComponent("auth")

	ctx := context.WithValue(context.Background(), constants.ContextKeyRequestID, "req-1")
	log.Info(ctx, "login attempt",
		logger.String("username", "alice"),
		logger.String("password", "hunter2"),
	)
	log.Error(ctx, "store failure", errors.New("boom"), logger.String("operation", "is_blocked"))

	entries := logs.All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "auth", fields["component"])
	assert.Equal(t, "loginpage", fields["service"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "alice", fields["username"])
	assert.Equal(t, "***", fields["password"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
}

func TestNewZapLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := NewZapLogger(&config.LogConfig{Level: "chatty", Format: "json", OutputPath: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}
