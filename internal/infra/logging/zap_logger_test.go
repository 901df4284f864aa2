package logging_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rcarvalho-pb/payments_crud-go/internal/infra/logging"
)

func TestZapLogger_WritesLevelMessageAndFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := logging.NewZapLogger(zap.New(core))

	logger.Info("request received", map[string]any{
		"method": "GET",
		"path":   "/payments",
	})
	logger.Error("store operation failed", map[string]any{
		"operation": "get",
		"error":     errors.New("throttled"),
	})

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	require.Equal(t, zap.InfoLevel, entries[0].Level)
	require.Equal(t, "request received", entries[0].Message)
	require.Equal(t, map[string]any{"method": "GET", "path": "/payments"}, entries[0].ContextMap())

	require.Equal(t, zap.ErrorLevel, entries[1].Level)
	require.Equal(t, "throttled", entries[1].ContextMap()["error"])
	require.Equal(t, "get", entries[1].ContextMap()["operation"])
}
