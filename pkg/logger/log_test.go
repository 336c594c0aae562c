package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesToFile(t *testing.T) {
	dir := t.TempDir()

	l := NewLogger(&Config{
		Level:    DebugLevel,
		Path:     dir,
		FileName: "test.log",
	})

	l.Info("hello %s", "world")
	l.Error("boom: %d", 42)
	l.Close()

	content, err := os.ReadFile(filepath.Join(dir, "test.log"))
	require.NoError(t, err)

	text := string(content)
	assert.Contains(t, text, "[INFO] ")
	assert.Contains(t, text, "hello world")
	assert.Contains(t, text, "[ERROR] ")
	assert.Contains(t, text, "boom: 42")
	assert.Contains(t, text, "log_test.go:")
}

func TestLoggerLevelFiltering(t *testing.T) {
	dir := t.TempDir()

	l := NewLogger(&Config{
		Level:    ErrorLevel,
		Path:     dir,
		FileName: "filtered.log",
	})

	l.Debug("dropped")
	l.Info("dropped too")
	l.Error("kept")
	l.Close()

	content, err := os.ReadFile(filepath.Join(dir, "filtered.log"))
	require.NoError(t, err)

	text := string(content)
	assert.NotContains(t, text, "dropped")
	assert.Contains(t, text, "kept")
}

func TestLoggerCloseDrainsQueue(t *testing.T) {
	dir := t.TempDir()

	l := NewLogger(&Config{
		Level:       InfoLevel,
		QueueLength: 1000,
		Path:        dir,
		FileName:    "drain.log",
	})

	for i := 0; i < 100; i++ {
		l.Info("entry %d", i)
	}
	l.Close()

	// queued entries may still be in flight right after close returns the
	// channel drained loop, give the appender a moment on slow machines
	deadline := time.Now().Add(2 * time.Second)
	for {
		content, err := os.ReadFile(filepath.Join(dir, "drain.log"))
		require.NoError(t, err)
		if strings.Count(string(content), "entry ") == 100 || time.Now().After(deadline) {
			assert.Equal(t, 100, strings.Count(string(content), "entry "))
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}
