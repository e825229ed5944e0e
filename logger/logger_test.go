package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToInfoOnBadLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("not-a-level", false, &buf)

	log.Debug().Msg("suppressed")
	log.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "suppressed")
	assert.Contains(t, out, "visible")
}

func TestEventFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("debug", false, &buf)

	log.Warn().
		Str("reason", "pool").
		Int("perRoute", 10).
		Int64("total", 5).
		Dur("elapsed", 250*time.Millisecond).
		Err(errors.New("boom")).
		Msg("reverting to defaults")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "pool", entry["reason"])
	assert.Equal(t, float64(10), entry["perRoute"])
	assert.Equal(t, float64(5), entry["total"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "reverting to defaults", entry["message"])
}

func TestMsgf(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", false, &buf)

	log.Info().Msgf("attempt %d of %d", 2, 4)

	assert.Contains(t, buf.String(), "attempt 2 of 4")
}

func TestPrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", true, &buf)

	log.Info().Str("k", "v").Msg("hello")

	// console writer output is not JSON
	assert.Contains(t, buf.String(), "hello")
	assert.Error(t, json.Unmarshal(buf.Bytes(), &map[string]any{}))
}
