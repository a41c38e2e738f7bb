package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authbridge/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Run("text format by default", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf))
		log.Info("hello", "k", "v")
		out := buf.String()
		assert.Contains(t, out, "msg=hello")
		assert.Contains(t, out, "k=v")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON))
		log.Info("hello")
		assert.Contains(t, buf.String(), `"msg":"hello"`)
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		require.Empty(t, buf.String())
		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("unknown format falls back to text", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithFormat("xml"))
		log.Info("hello")
		assert.Contains(t, buf.String(), "msg=hello")
	})
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	require.NotNil(t, log)
	log.Error("swallowed")
}
