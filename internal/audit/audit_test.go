package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStdLogger_Record(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.New(slog.NewJSONHandler(&buf, nil)))

	logger.Record(context.Background(), Event{
		Type:          TypeToolRejected,
		Tool:          "Gmail_SendEmail",
		CorrelationID: "c-1",
		Outcome:       "rejected",
		Reason:        "invalid arguments",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["msg"])
	assert.Equal(t, TypeToolRejected, entry["type"])
	assert.Equal(t, "Gmail_SendEmail", entry["tool"])
	assert.Equal(t, "c-1", entry["correlation_id"])
	assert.Equal(t, "invalid arguments", entry["reason"])
	assert.NotContains(t, entry, "args")
}

func TestStdLogger_RecordNil(t *testing.T) {
	var logger *StdLogger
	assert.NotPanics(t, func() {
		logger.Record(context.Background(), Event{Type: TypeToolCall})
		New(nil).Record(context.Background(), Event{Type: TypeToolCall})
	})
}
