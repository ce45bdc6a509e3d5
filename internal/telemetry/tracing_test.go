package telemetry_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/Aidin1998/calendars/internal/config"
	"github.com/Aidin1998/calendars/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := telemetry.Setup(config.TracingConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_ExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := telemetry.SetupWithWriter(config.TracingConfig{Enabled: true, ServiceName: "calendars-test"}, &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "list-calendars")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "list-calendars")
	assert.Contains(t, buf.String(), "calendars-test")
}
