package identity

import (
	"context"
	"time"

	authcore "github.com/vterekhov/authcore"
)

// HistorySink persists login audit events as LoginHistory rows. Wire it into
// the engine via Builder.WithAuditSink. Persistence failures are swallowed:
// history is bookkeeping and must never affect an authentication outcome.
type HistorySink struct {
	db *Store
}

// NewHistorySink creates a sink writing through store.
func NewHistorySink(store *Store) *HistorySink {
	return &HistorySink{db: store}
}

// Emit implements authcore.AuditSink.
func (s *HistorySink) Emit(ctx context.Context, event authcore.AuditEvent) {
	if s == nil || s.db == nil {
		return
	}

	var status string
	switch event.EventType {
	case authcore.AuditLoginSuccess:
		status = "success"
	case authcore.AuditLoginFailure:
		status = "failure"
	default:
		return
	}

	record := LoginHistory{
		UserID:      event.UserID,
		Login:       event.Login,
		LoginTime:   event.Timestamp,
		IPAddress:   event.IP,
		UserAgent:   event.UserAgent,
		DeviceType:  event.DeviceType,
		LoginStatus: status,
	}
	if record.LoginTime.IsZero() {
		record.LoginTime = time.Now()
	}

	_ = s.db.db.WithContext(ctx).Create(&record).Error
}
