package ports

import (
	"context"

	"github.com/waosongs/storefront/internal/core/domain"
)

// AuditSink accepts submission events without blocking the caller.
type AuditSink interface {
	Record(event domain.SubmissionEvent)
}

// AuditRepository persists submission events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.SubmissionEvent) error
}
