package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonMueller-OneAndOnly/blitz/core/logger"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("app", "blitz")),
	)

	log.Info("hello", logger.Component("session"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "blitz", record["app"])
	assert.Equal(t, "session", record["component"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Discard().Info("dropped", logger.Error(errors.New("boom")))
	})
}

func TestAttr_NilSafety(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, slog.Attr{}, logger.Handle(""))
	assert.Equal(t, slog.Attr{}, logger.UserID(nil))
}

func TestAttr_Values(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, "error", logger.Error(err).Key)
	assert.Equal(t, "session_handle", logger.Handle("h").Key)
	assert.Equal(t, "method", logger.Method("GET").Key)
	assert.Equal(t, "duration", logger.Duration(time.Second).Key)
	assert.Equal(t, "event", logger.Event("session_created").Key)
}
