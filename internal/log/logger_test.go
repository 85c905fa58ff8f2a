package log

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"bogus":   zerolog.InfoLevel,
		"off":     zerolog.Disabled,
	}
	for in, want := range tests {
		require.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewAppliesLevel(t *testing.T) {
	logger := New("error")
	require.Equal(t, zerolog.ErrorLevel, logger.GetLevel())
}

func TestComponentTagsOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWithWriter("info", &buf), "hub")
	logger.Info().Msg("hello")

	require.Contains(t, buf.String(), `"component":"hub"`)
	require.Contains(t, buf.String(), `"message":"hello"`)
}
