package ports

import (
	"context"

	"github.com/michi-labs/catapi/internal/core/domain"
)

// AuditPublisher accepts auth events for asynchronous persistence.
// Publish must not block the caller.
type AuditPublisher interface {
	Publish(event domain.AuthEvent)
}

// AuditRepository persists auth events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
