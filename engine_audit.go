package authcore

import (
	"context"
	"time"

	internalaudit "github.com/vterekhov/authcore/internal/audit"
)

func (e *Engine) emitLoginEvent(ctx context.Context, eventType, userID, login string, success bool, cause error) {
	if e == nil || e.audit == nil {
		return
	}

	userAgent := userAgentFromContext(ctx)
	event := AuditEvent{
		Timestamp:  time.Now(),
		EventType:  eventType,
		UserID:     userID,
		Login:      login,
		IP:         clientIPFromContext(ctx),
		UserAgent:  userAgent,
		DeviceType: internalaudit.DeviceTypeFromUserAgent(userAgent),
		Success:    success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	e.audit.Emit(ctx, event)
}

func (e *Engine) emitEvent(ctx context.Context, eventType, userID string, success bool, cause error) {
	if e == nil || e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		UserID:    userID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	e.audit.Emit(ctx, event)
}
