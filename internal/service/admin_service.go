package service

import (
	"context"

	"loan-assist-be/internal/dto"
	"loan-assist-be/internal/pkg/logger"
	"loan-assist-be/internal/repository/specification"
	"loan-assist-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IAdminService interface {
	ListSessions(ctx context.Context) ([]*dto.SessionSummaryResponse, error)
	GetSessionAudit(ctx context.Context, sessionId uuid.UUID) ([]*dto.AuditEntryResponse, error)
	GetLogs(level string, limit, offset int) ([]logger.LogEntry, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	sysLogger  logger.ILogger
}

func NewAdminService(uowFactory unitofwork.RepositoryFactory, sysLogger logger.ILogger) IAdminService {
	return &adminService{
		uowFactory: uowFactory,
		sysLogger:  sysLogger,
	}
}

func (s *adminService) ListSessions(ctx context.Context) ([]*dto.SessionSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.LoanSessionRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionSummaryResponse, len(sessions))
	for i, sess := range sessions {
		result[i] = &dto.SessionSummaryResponse{
			Id:             sess.Id,
			Stage:          sess.Stage,
			ArtifactIssued: sess.ArtifactIssued,
			CreatedAt:      sess.CreatedAt,
		}
	}
	return result, nil
}

func (s *adminService) GetSessionAudit(ctx context.Context, sessionId uuid.UUID) ([]*dto.AuditEntryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	entries, err := uow.AuditEntryRepository().FindAll(ctx,
		specification.ByLoanSessionID{LoanSessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.AuditEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = &dto.AuditEntryResponse{
			Id:            e.Id,
			LoanSessionId: e.LoanSessionId,
			EventType:     e.EventType,
			Detail:        e.Detail,
			CreatedAt:     e.CreatedAt,
		}
	}
	return result, nil
}

func (s *adminService) GetLogs(level string, limit, offset int) ([]logger.LogEntry, error) {
	return s.sysLogger.GetLogs(level, limit, offset)
}
