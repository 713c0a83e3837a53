package authcore

import (
	"io"

	internalaudit "github.com/vterekhov/authcore/internal/audit"
)

// AuditEvent is a structured audit record emitted by the engine. Login
// events double as login-history records.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// Audit event types emitted by the engine.
const (
	// AuditLoginSuccess is an exported constant or variable used by the authentication engine.
	AuditLoginSuccess = internalaudit.EventLoginSuccess
	// AuditLoginFailure is an exported constant or variable used by the authentication engine.
	AuditLoginFailure = internalaudit.EventLoginFailure
	// AuditTokenRefreshed is an exported constant or variable used by the authentication engine.
	AuditTokenRefreshed = internalaudit.EventTokenRefreshed
	// AuditLogout is an exported constant or variable used by the authentication engine.
	AuditLogout = internalaudit.EventLogout
	// AuditAccountCreated is an exported constant or variable used by the authentication engine.
	AuditAccountCreated = internalaudit.EventAccountCreated
	// AuditAccountUpdated is an exported constant or variable used by the authentication engine.
	AuditAccountUpdated = internalaudit.EventAccountUpdated
	// AuditRoleCreated is an exported constant or variable used by the authentication engine.
	AuditRoleCreated = internalaudit.EventRoleCreated
)

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
