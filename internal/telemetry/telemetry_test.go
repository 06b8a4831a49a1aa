package telemetry

import (
	"context"
	"ctchen222/todo-api/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOtel_Disabled(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), config.TelemetryConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitOtel_Stdout(t *testing.T) {
	shutdown, err := InitOtel(context.Background(), config.TelemetryConfig{
		Enabled:     true,
		Exporter:    "stdout",
		ServiceName: "todo-api-test",
	})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
