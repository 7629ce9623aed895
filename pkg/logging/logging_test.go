package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/treediff/pkg/models"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestZerologLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf, Format: FormatJSON, Level: InfoLevel})
	require.NoError(t, err)

	ctx := context.Background()
	logger.Debug(ctx, "hidden", nil)
	logger.Warn(ctx, "copy failed", errors.New("disk full"), Fields{"path": "a/b.txt"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "debug entries must be filtered at info level")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "copy failed", entry["message"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "a/b.txt", entry["path"])
	assert.Contains(t, entry, "time")
}

func TestZerologLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf, Format: FormatJSON, Level: DebugLevel})
	require.NoError(t, err)

	child := logger.WithFields(Fields{"run_id": "abc"})
	child.Info(context.Background(), "started", Fields{"strict": true})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, true, entry["strict"])
}

func TestZerologLoggerTextFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "treediff.log")

	logger, err := New(Config{Path: logPath, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)

	logger.Error(context.Background(), "rename failed", errors.New("busy"), Fields{"path": "x"})
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "rename failed")
	assert.Contains(t, string(data), "busy")
	assert.NotContains(t, string(data), "\x1b[", "file output must not be colored")
}

func TestZerologLoggerConcurrentWriters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info(context.Background(), "entry scanned", Fields{"path": "dir/file.txt"})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, writers)
	for _, line := range lines {
		assert.Contains(t, line, "entry scanned")
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "x", nil)
	logger.Info(ctx, "x", nil)
	logger.Warn(ctx, "x", nil, nil)
	logger.Error(ctx, "x", errors.New("e"), nil)

	assert.Same(t, logger, logger.WithFields(Fields{"a": 1}))
	assert.NoError(t, logger.Close())
}

func TestCollector(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Writer: &buf, Format: FormatJSON, Level: InfoLevel})
	require.NoError(t, err)

	c := NewCollector(logger)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, p := range []string{"c", "a", "b"} {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			c.Fail(ctx, models.OpCopy, p, errors.New("boom"))
		}(p)
	}
	wg.Wait()

	failures := c.Failures()
	require.Len(t, failures, 3)
	assert.Equal(t, "a", failures[0].Path)
	assert.Equal(t, "c", failures[2].Path)
	assert.Equal(t, models.OpCopy, failures[0].Op)
	assert.Equal(t, "boom", failures[0].Error)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 3, strings.Count(buf.String(), "copy failed"))
}

func TestCollectorNilLogger(t *testing.T) {
	c := NewCollector(nil)
	c.Fail(context.Background(), models.OpWalk, "x", errors.New("denied"))
	assert.Equal(t, 1, c.Len())
}
