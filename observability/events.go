// Package observability records business events and HTTP request logs in a
// dedicated SQLite database, kept separate from application state to avoid
// write contention.
package observability

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Ethan1812/pdf-edit-online/idgen"
)

// BusinessEvent represents a domain-level event to record.
type BusinessEvent struct {
	EventType   string
	ServiceName string
	EntityType  string
	EntityID    string
	Action      string
	Details     string // optional JSON
	Success     bool
}

// EventLogger writes business events.
type EventLogger struct {
	db    *sql.DB
	newID idgen.Generator
}

// EventLoggerOption configures an EventLogger.
type EventLoggerOption func(*EventLogger)

// WithEventIDGenerator sets a custom ID generator for event IDs.
func WithEventIDGenerator(gen idgen.Generator) EventLoggerOption {
	return func(l *EventLogger) { l.newID = gen }
}

// NewEventLogger creates a logger backed by the given observability database.
func NewEventLogger(db *sql.DB, opts ...EventLoggerOption) *EventLogger {
	l := &EventLogger{
		db:    db,
		newID: idgen.Prefixed("evt_", idgen.Default),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LogEvent records a business event. Non-blocking: errors are logged via slog
// but do not propagate, so a failing observability store never blocks the app.
func (l *EventLogger) LogEvent(ctx context.Context, event BusinessEvent) {
	eventID := l.newID()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO business_event_logs (
			event_id, event_type, service_name, entity_type, entity_id,
			action, details, success, created_at
		) VALUES (?,?,?,?,?,?,?,?,?)`,
		eventID, event.EventType, event.ServiceName, event.EntityType, event.EntityID,
		event.Action, event.Details, event.Success, time.Now().Unix())
	if err != nil {
		slog.Error("observability event log failed", "error", err, "event_type", event.EventType)
	}
}

// LogRequest records one HTTP request. Same non-blocking policy as LogEvent.
func (l *EventLogger) LogRequest(ctx context.Context, requestID, method, path string, status int, duration time.Duration, remoteAddr string) {
	if requestID == "" {
		requestID = l.newID()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO http_request_logs (
			request_id, method, path, status, duration_ms, remote_addr, created_at
		) VALUES (?,?,?,?,?,?,?)`,
		requestID, method, path, status, duration.Milliseconds(), remoteAddr, time.Now().Unix())
	if err != nil {
		slog.Warn("http request log failed", "error", err, "path", path)
	}
}
