package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"  WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	} {
		assert.Equal(t, tc.want, parseLevel(tc.in), "level %q", tc.in)
	}
}

func TestNewHonoursLevel(t *testing.T) {
	logger := New(Config{Level: "warn"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	logger := Ctx(context.Background())
	assert.Equal(t, L().GetLevel(), logger.GetLevel())
}

func TestCtxRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	stored := zerolog.New(&buf)

	ctx := WithLogger(context.Background(), stored)
	l := Ctx(ctx)
	l.Info().Str("k", "v").Msg("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "v", entry["k"])
	assert.Equal(t, "hello", entry["message"])
}
