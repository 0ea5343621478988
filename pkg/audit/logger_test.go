package audit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWritesPrefixedJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf)

	l.Record(EventSecurity, "sess-1", "client-1", "auth_failed", map[string]any{"reason": "bad signature"})

	line := buf.String()
	require.True(t, strings.HasPrefix(line, "AUDIT: "))

	var event Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "AUDIT: ")), &event))
	assert.Equal(t, EventSecurity, event.Type)
	assert.Equal(t, "sess-1", event.SessionID)
	assert.Equal(t, "auth_failed", event.Action)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestNopLoggerIsSilent(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Record(EventAccess, "", "", "noop", nil)
	})
}
