package unitofwork

import (
	"context"

	"loan-assist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	LoanSessionRepository() contract.LoanSessionRepository
	ChatTurnRepository() contract.ChatTurnRepository
	AuditEntryRepository() contract.AuditEntryRepository
}
