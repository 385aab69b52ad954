package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", FormatJSON)
	require.NoError(t, err)

	logger.Debug().Msg("hidden")
	logger.Info().Str("course", "testcourse_3").Msg("created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "created", entry["message"])
	assert.Equal(t, "testcourse_3", entry["course"])
	assert.Contains(t, entry, "time")
}

func TestNew_AutoOnNonTerminalIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "DEBUG", FormatAuto)
	require.NoError(t, err)

	logger.Debug().Msg("auto")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNew_AutoOnRegularFileIsJSON(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "perfdata-*.log")
	require.NoError(t, err)
	defer f.Close()

	logger, err := New(f, "info", FormatAuto)
	require.NoError(t, err)
	logger.Info().Msg("to file")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.True(t, json.Valid(bytes.TrimSpace(data)), "got %q", data)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "info", FormatConsole)
	require.NoError(t, err)

	logger.Warn().Msg("careful")
	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "careful")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNew_Errors(t *testing.T) {
	var buf bytes.Buffer

	_, err := New(&buf, "loud", FormatJSON)
	assert.Error(t, err)

	_, err = New(&buf, "info", "xml")
	assert.Error(t, err)
}
