package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"loan-assist-be/internal/constant"
	"loan-assist-be/internal/dto"
	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/pkg/logger"
	"loan-assist-be/internal/pkg/mailer"
	"loan-assist-be/internal/repository/memory"
	"loan-assist-be/internal/repository/specification"
	"loan-assist-be/internal/repository/unitofwork"
	"loan-assist-be/pkg/events"
	"loan-assist-be/pkg/intake"
	pktNats "loan-assist-be/pkg/nats"

	"github.com/google/uuid"
)

type IIntakeService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.ChatHistoryResponse, error)
}

// intakeService is the persistence boundary around the stage machine:
// load, step, save run as one logical unit under the per-session lock.
type intakeService struct {
	uowFactory       unitofwork.RepositoryFactory
	machine          *intake.Machine
	locks            *memory.LockRegistry
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	emailService     mailer.IEmailService
	sysLogger        logger.ILogger
	collabTimeout    time.Duration
}

func NewIntakeService(
	uowFactory unitofwork.RepositoryFactory,
	machine *intake.Machine,
	locks *memory.LockRegistry,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	emailService mailer.IEmailService,
	sysLogger logger.ILogger,
	collabTimeout time.Duration,
) IIntakeService {
	return &intakeService{
		uowFactory:       uowFactory,
		machine:          machine,
		locks:            locks,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		emailService:     emailService,
		sysLogger:        sysLogger,
		collabTimeout:    collabTimeout,
	}
}

func (s *intakeService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId, err := s.resolveSessionId(req.SessionId)
	if err != nil {
		return nil, err
	}

	// Serialize turns per session. Two near-simultaneous duplicates
	// must not both advance the stage.
	mu := s.locks.Acquire(sessionId.String())
	mu.Lock()
	defer mu.Unlock()

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.LoanSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		session, err = uow.LoanSessionRepository().CreateIfAbsent(ctx, &entity.LoanSession{
			Id:        sessionId,
			Stage:     constant.StageAskName,
			CreatedAt: time.Now(),
		})
		if err != nil {
			return nil, err
		}
	}

	stageBefore := session.Stage
	userText := strings.TrimSpace(req.Message)

	stepCtx, cancel := context.WithTimeout(ctx, s.collabTimeout)
	defer cancel()

	result, err := s.machine.Step(stepCtx, session.Clone(), userText)
	if err != nil {
		if intake.IsTransient(err) {
			// Nothing was mutated; tell the applicant to resend. The
			// retry is naturally idempotent.
			s.sysLogger.Warn("intake", "transient collaborator failure", map[string]interface{}{
				"session_id": sessionId,
				"stage":      stageBefore,
				"error":      err.Error(),
			})
			return &dto.ChatResponse{
				SessionId: sessionId.String(),
				Reply:     constant.ReplyTransientIssue,
				Stage:     stageBefore,
			}, nil
		}
		if intake.IsInvariantViolation(err) {
			// Defect. Fail the turn closed and page the operators.
			s.sysLogger.Error("intake", "invariant violation, turn failed closed", map[string]interface{}{
				"session_id": sessionId,
				"stage":      stageBefore,
				"error":      err.Error(),
			})
			_ = s.emailService.SendOpsAlert(
				"Intake invariant violation",
				fmt.Sprintf("Session %s at stage %s: %v", sessionId, stageBefore, err),
			)
			s.publishAudit(ctx, sessionId, events.TypeIntakeDefect, map[string]interface{}{
				"stage": stageBefore,
				"error": err.Error(),
			})
			return nil, err
		}
		return nil, err
	}

	if result.IssueErr != nil {
		// Approval stands, the applicant just gets no download this
		// turn; a later re-query retries issuance.
		s.sysLogger.Error("intake", "sanction letter issuance failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      result.IssueErr.Error(),
		})
	}

	if err := s.persistTurn(ctx, uow, result.Session, userText, result.Reply); err != nil {
		// Persistence failure must never look like success to the client.
		s.sysLogger.Error("intake", "failed to persist turn", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.sysLogger.Info("intake", "turn processed", map[string]interface{}{
		"session_id":  sessionId,
		"stage_from":  stageBefore,
		"stage_to":    result.Session.Stage,
		"agent_label": result.AgentLabel,
	})

	s.publishAudit(ctx, sessionId, "TURN_CONCLUDED", map[string]interface{}{
		"stage_from":  stageBefore,
		"stage_to":    result.Session.Stage,
		"agent_label": result.AgentLabel,
	})
	s.publishDecisionEvents(ctx, sessionId, stageBefore, result)

	resp := &dto.ChatResponse{
		SessionId: sessionId.String(),
		Reply:     result.Reply,
		Stage:     result.Session.Stage,
	}
	if result.UiAction != "" {
		resp.UiAction = result.UiAction
		resp.Data = &dto.ChatResponseData{LetterURL: result.LetterURL}
	}
	return resp, nil
}

func (s *intakeService) GetHistory(ctx context.Context, sessionId uuid.UUID) ([]*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	turns, err := uow.ChatTurnRepository().FindAll(ctx,
		specification.ByLoanSessionID{LoanSessionID: sessionId},
		specification.OrderBy{Field: "seq"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatHistoryResponse, len(turns))
	for i, t := range turns {
		result[i] = &dto.ChatHistoryResponse{
			Role:      t.Role,
			Text:      t.Text,
			Seq:       t.Seq,
			CreatedAt: t.CreatedAt,
		}
	}
	return result, nil
}

// resolveSessionId parses the client-generated id, minting one on first
// contact without an id.
func (s *intakeService) resolveSessionId(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(raw)
}

func (s *intakeService) persistTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	session *entity.LoanSession,
	userText, reply string,
) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	maxSeq, err := uow.ChatTurnRepository().MaxSeq(ctx, session.Id)
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	now := time.Now()
	userTurn := entity.ChatTurn{
		Id:            uuid.New(),
		LoanSessionId: session.Id,
		Role:          constant.TurnRoleUser,
		Text:          userText,
		Seq:           maxSeq + 1,
		CreatedAt:     now,
	}
	botTurn := entity.ChatTurn{
		Id:            uuid.New(),
		LoanSessionId: session.Id,
		Role:          constant.TurnRoleBot,
		Text:          reply,
		Seq:           maxSeq + 2,
		CreatedAt:     now,
	}

	if err := uow.ChatTurnRepository().Create(ctx, &userTurn); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.ChatTurnRepository().Create(ctx, &botTurn); err != nil {
		_ = uow.Rollback()
		return err
	}
	if err := uow.LoanSessionRepository().Update(ctx, session); err != nil {
		_ = uow.Rollback()
		return err
	}

	return uow.Commit()
}

func (s *intakeService) publishAudit(ctx context.Context, sessionId uuid.UUID, eventType string, detail map[string]interface{}) {
	payload := dto.PublishAuditMessage{
		LoanSessionId: sessionId,
		EventType:     eventType,
		Detail:        detail,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payloadJson); err != nil {
		s.sysLogger.Warn("intake", "failed to publish audit message", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

// publishDecisionEvents pushes terminal transitions to the event bus.
// Auxiliary: a publish failure never fails the turn.
func (s *intakeService) publishDecisionEvents(ctx context.Context, sessionId uuid.UUID, stageBefore string, result *intake.StepResult) {
	if s.eventPublisher == nil {
		return
	}

	if !intake.IsTerminal(stageBefore) && intake.IsTerminal(result.Session.Stage) {
		eventType := events.TypeLoanRejected
		if result.Session.Stage == constant.StageCompleted {
			eventType = events.TypeLoanApproved
		}
		evt := events.New(eventType, map[string]interface{}{
			"session_id":      sessionId,
			"approved_amount": result.Session.ApprovedAmount,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
		}
	}

	if result.UiAction != "" {
		evt := events.New(events.TypeLetterIssued, map[string]interface{}{
			"session_id": sessionId,
			"letter_url": result.LetterURL,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish LETTER_ISSUED event: %v\n", err)
		}
	}
}
