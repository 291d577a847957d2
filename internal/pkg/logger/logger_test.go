package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromStrings(t *testing.T) {
	cfg := ConfigFromStrings(" DEBUG ", "Text")
	assert.Equal(t, DebugLevel, cfg.Level)
	assert.True(t, cfg.Pretty)

	cfg = ConfigFromStrings("warn", "json")
	assert.Equal(t, WarnLevel, cfg.Level)
	assert.False(t, cfg.Pretty)
}

func TestConfigureWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	lgr := Configure(Config{Level: InfoLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	lgr.Info().Str("usn", "1CS001").Msg("hello")
	Debug().Msg("dropped")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "hello", line["message"])
	assert.Equal(t, "1CS001", line["usn"])
	assert.Equal(t, "collegeerp", line["app"])
}
