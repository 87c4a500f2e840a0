package contract

import (
	"context"

	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatTurnRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error)
	// MaxSeq returns the highest sequence number recorded for the
	// session, 0 when the log is empty.
	MaxSeq(ctx context.Context, sessionId uuid.UUID) (int, error)
}
