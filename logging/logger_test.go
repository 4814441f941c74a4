package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { log.SetDefault(log.New(&bytes.Buffer{})) })

	logger.Info("hidden")
	logger.Warn("shown", "page", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "page=3")
}

func TestSetup_InstallsDefault(t *testing.T) {
	var buf bytes.Buffer

	_, err := Setup(Config{Level: "debug", Output: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { log.SetDefault(log.New(&bytes.Buffer{})) })

	log.Debug("from package level")

	assert.Contains(t, buf.String(), "from package level")
}

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer

	logger, err := Setup(Config{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)
	t.Cleanup(func() { log.SetDefault(log.New(&bytes.Buffer{})) })

	logger.Info("page loaded", "page", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "page loaded", entry["msg"])
	assert.Equal(t, float64(2), entry["page"])
}

func TestSetup_InvalidConfig(t *testing.T) {
	_, err := Setup(Config{Level: "loud"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = Setup(Config{Format: "xml"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
	assert.NotNil(t, cfg.Output)
}
