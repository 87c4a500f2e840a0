package contract

import (
	"context"

	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/repository/specification"
)

// LoanSessionRepository persists the per-conversation state record.
type LoanSessionRepository interface {
	// CreateIfAbsent inserts the session unless the id already exists.
	// First create wins; a lost race is not an error. Returns the row
	// that is now durable for the id.
	CreateIfAbsent(ctx context.Context, session *entity.LoanSession) (*entity.LoanSession, error)
	Update(ctx context.Context, session *entity.LoanSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.LoanSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.LoanSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
