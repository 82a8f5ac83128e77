package ports

import (
	"context"

	"github.com/qfactory/mes-helper/internal/core/domain"
)

// AuditRepository persists the query audit trail.
type AuditRepository interface {
	InsertQuery(ctx context.Context, entry *domain.QueryAudit) error
}
