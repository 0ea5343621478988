// Package audit emits structured JSON audit events for security-relevant
// bridge and kernel activity. The durable, hash-chained trail lives in
// pkg/store; this logger is the operational stream (stdout or an injected
// sink) that operators tail.
package audit

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType categorizes audit events.
type EventType string

const (
	EventAccess   EventType = "ACCESS"
	EventSecurity EventType = "SECURITY"
	EventPolicy   EventType = "POLICY"
	EventSystem   EventType = "SYSTEM"
)

// Event is a single structured audit record.
type Event struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id,omitempty"`
	ClientID  string         `json:"client_id,omitempty"`
	Type      EventType      `json:"type"`
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Logger records audit events.
type Logger interface {
	Record(eventType EventType, sessionID, clientID, action string, metadata map[string]any)
}

type logger struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewLogger creates a Logger writing to os.Stdout.
func NewLogger() Logger {
	return NewLoggerWithWriter(os.Stdout)
}

// NewLoggerWithWriter creates a Logger writing to the given writer,
// allowing injection for tests and custom sinks.
func NewLoggerWithWriter(w io.Writer) Logger {
	if w == nil {
		w = os.Stdout
	}
	return &logger{writer: w}
}

func (l *logger) Record(eventType EventType, sessionID, clientID, action string, metadata map[string]any) {
	event := Event{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		ClientID:  clientID,
		Type:      eventType,
		Action:    action,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bytes, err := json.Marshal(event)
	if err != nil {
		return
	}
	// Prefix for easy filtering alongside application logs.
	_, _ = l.writer.Write(append([]byte("AUDIT: "), append(bytes, '\n')...))
}

// Nop returns a logger that discards everything; useful default for
// library callers that do not wire auditing.
func Nop() Logger {
	return &logger{writer: io.Discard}
}
