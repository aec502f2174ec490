package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterUsesSeverityField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "production", "")
	log.Info().Str("user_id", "d1").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["severity"])
	assert.Equal(t, "d1", entry["user_id"])
	assert.Equal(t, "hello", entry["message"])
}

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, zerolog.InfoLevel, NewWithWriter(&buf, "production", "").GetLevel())
	assert.Equal(t, zerolog.DebugLevel, NewWithWriter(&buf, "development", "").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, NewWithWriter(&buf, "production", "WARN").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewWithWriter(&buf, "production", "loud").GetLevel())
}

func TestNewWithWriterFiltersDebugInProduction(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "production", "")
	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
	log.Warn().Msg("shown")
	assert.NotZero(t, buf.Len())
}
