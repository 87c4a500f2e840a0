package contract

import (
	"context"

	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/repository/specification"
)

// AuditEntryRepository stores concluded-turn and defect records for the
// ops surface.
type AuditEntryRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AuditEntry, error)
}
