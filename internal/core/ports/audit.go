package ports

import (
	"context"

	"github.com/ngcore/auth-api/internal/core/domain"
)

// AuditRecorder accepts account audit events for asynchronous persistence.
// Recording is fire-and-forget: it must never fail a request.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
