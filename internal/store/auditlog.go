package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xnotid/xnotid/internal/model"
)

// Audit event names. Close events are named after the close reason.
const (
	EventReceived = "received"
	EventAction   = "action"
)

// AuditEntry is one line of the append-only JSONL lifecycle log.
// Full notification content is recorded only on the received event;
// every other event carries just the identity fields.
type AuditEntry struct {
	CorrelationID  string            `json:"correlation_id"`
	Timestamp      string            `json:"timestamp"`
	Event          string            `json:"event"`
	NotificationID uint32            `json:"notification_id"`
	AppName        string            `json:"app_name,omitempty"`
	AppIcon        string            `json:"app_icon,omitempty"`
	Summary        string            `json:"summary,omitempty"`
	Body           string            `json:"body,omitempty"`
	CreatedAt      string            `json:"created_at,omitempty"`
	Urgency        string            `json:"urgency,omitempty"`
	DesktopEntry   string            `json:"desktop_entry,omitempty"`
	Hints          map[string]string `json:"hints,omitempty"`
	ActionKey      string            `json:"action_key,omitempty"`
	Group          string            `json:"group,omitempty"`
}

// AuditLogger appends lifecycle events to a JSONL file. Logging is
// fire-and-forget: the file is opened per write (tolerating external
// rotation), parent directories are created on first write, and any
// failure is swallowed; the store's responsibility is in-memory
// correctness, not durability.
type AuditLogger struct {
	enabled bool
	path    string
	logger  *slog.Logger
}

// NewAuditLogger creates an AuditLogger writing to path. A disabled
// logger drops every event.
func NewAuditLogger(enabled bool, path string, logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{enabled: enabled, path: path, logger: logger}
}

// Path returns the configured log file path.
func (l *AuditLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Received logs the arrival of a notification with its full content.
func (l *AuditLogger) Received(n *model.Notification) {
	l.event(n, EventReceived, "")
}

// Closed logs a notification leaving the store, named after the reason.
func (l *AuditLogger) Closed(n *model.Notification, reason model.CloseReason) {
	l.event(n, reason.String(), "")
}

// Action logs an action invocation on an active notification.
func (l *AuditLogger) Action(n *model.Notification, actionKey string) {
	l.event(n, EventAction, actionKey)
}

func (l *AuditLogger) event(n *model.Notification, event, actionKey string) {
	if l == nil || !l.enabled || l.path == "" {
		return
	}

	entry := AuditEntry{
		CorrelationID:  n.CorrelationID,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Event:          event,
		NotificationID: n.ID,
		AppName:        n.AppName,
		Summary:        n.Summary,
		ActionKey:      actionKey,
		Group:          n.Group,
	}
	if event == EventReceived {
		entry.AppIcon = n.AppIcon
		entry.Body = n.Body
		entry.CreatedAt = n.CreatedAt.UTC().Format(time.RFC3339)
		entry.Urgency = n.Urgency.String()
		entry.DesktopEntry = n.DesktopEntry
		entry.Hints = n.Hints
	}

	data, err := json.Marshal(entry)
	if err != nil {
		l.logger.Debug("failed to marshal audit entry", "error", err)
		return
	}

	if dir := filepath.Dir(l.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			l.logger.Debug("failed to create audit log directory", "dir", dir, "error", err)
			return
		}
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		l.logger.Debug("failed to open audit log", "path", l.path, "error", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		l.logger.Debug("failed to write audit entry", "path", l.path, "error", err)
	}
}
