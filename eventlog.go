package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// sessionEvent is one line of the ndjson session log. Events record what the
// user did, never the text being edited.
type sessionEvent struct {
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Fields    map[string]string `json:"fields,omitempty"`
}

type eventLogger struct {
	path      string
	sessionID string
	mu        sync.Mutex
}

func newEventLogger(path string) *eventLogger {
	_ = ensureDir(filepath.Dir(path))
	return &eventLogger{
		path:      path,
		sessionID: uuid.NewString(),
	}
}

func (l *eventLogger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

func (l *eventLogger) Emit(event string, fields map[string]string) {
	if l == nil || strings.TrimSpace(event) == "" {
		return
	}
	entry := sessionEvent{
		SessionID: l.sessionID,
		Timestamp: time.Now().UTC(),
		Event:     event,
		Fields:    fields,
	}
	if len(entry.Fields) == 0 {
		entry.Fields = nil
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.Write(append(line, '\n'))
}
