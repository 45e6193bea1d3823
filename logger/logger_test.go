package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogrusLogger("info", FormatJSON, &buf)

	log.WithField("run_id", "deadbeef").Info(context.Background(), "run started", map[string]interface{}{
		"variant": "A",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run started", entry["msg"])
	assert.Equal(t, "deadbeef", entry["run_id"])
	assert.Equal(t, "A", entry["variant"])
}

func TestLogrusLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantOut bool
	}{
		{name: "debug level shows info", level: "debug", wantOut: true},
		{name: "warn level hides info", level: "warn", wantOut: false},
		{name: "unknown level falls back to warn", level: "chatty", wantOut: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLogrusLogger(tt.level, FormatText, &buf)
			log.Info(context.Background(), "hello", nil)
			assert.Equal(t, tt.wantOut, buf.Len() > 0)
		})
	}
}

func TestTestLogger_DerivedLoggersShareEntries(t *testing.T) {
	ctx := context.Background()
	log := NewTestLogger()
	child := log.WithFields(map[string]interface{}{"persona": "alice"})

	log.Info(ctx, "parent", nil)
	child.Warn(ctx, "child", map[string]interface{}{"variant": "B"})

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "child", entries[1].Message)
	assert.Equal(t, "alice", entries[1].Fields["persona"])
	assert.Equal(t, "B", entries[1].Fields["variant"])
	assert.Equal(t, []string{"child"}, log.Messages("warn"))

	log.Reset()
	assert.Empty(t, log.Entries())
}
