package logging

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSONWithTimestampInLocation(t *testing.T) {
	var buf bytes.Buffer
	loc := time.FixedZone("IST", 5*3600+1800)

	log := New(&buf, loc, "debug")
	log.WithField("component", "test").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "test", line["component"])

	ts, ok := line["ts"].(string)
	require.True(t, ok)
	assert.Contains(t, ts, "+05:30")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	log := New(&bytes.Buffer{}, nil, "loud")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, time.UTC, "warn")
	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
