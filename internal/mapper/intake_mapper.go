package mapper

import (
	"encoding/json"
	"time"

	"loan-assist-be/internal/entity"
	"loan-assist-be/internal/model"

	"gorm.io/datatypes"
)

type IntakeMapper struct{}

func NewIntakeMapper() *IntakeMapper {
	return &IntakeMapper{}
}

// Session Mappers

func (m *IntakeMapper) LoanSessionToEntity(s *model.LoanSession) *entity.LoanSession {
	if s == nil {
		return nil
	}

	var facts entity.Facts
	if len(s.Facts) > 0 {
		// A corrupt facts column would zero the struct; the stage machine
		// treats missing fields as not-yet-collected, which fails safe.
		_ = json.Unmarshal(s.Facts, &facts)
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.LoanSession{
		Id:             s.Id,
		Stage:          s.Stage,
		Facts:          facts,
		ApprovedAmount: s.ApprovedAmount,
		ArtifactIssued: s.ArtifactIssued,
		LetterURL:      s.LetterURL,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *IntakeMapper) LoanSessionToModel(s *entity.LoanSession) *model.LoanSession {
	if s == nil {
		return nil
	}

	factsJSON, err := json.Marshal(s.Facts)
	if err != nil {
		factsJSON = []byte("{}")
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.LoanSession{
		Id:             s.Id,
		Stage:          s.Stage,
		Facts:          datatypes.JSON(factsJSON),
		ApprovedAmount: s.ApprovedAmount,
		ArtifactIssued: s.ArtifactIssued,
		LetterURL:      s.LetterURL,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

// Turn Mappers

func (m *IntakeMapper) ChatTurnToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}
	return &entity.ChatTurn{
		Id:            t.Id,
		LoanSessionId: t.LoanSessionId,
		Role:          t.Role,
		Text:          t.Text,
		Seq:           t.Seq,
		CreatedAt:     t.CreatedAt,
	}
}

func (m *IntakeMapper) ChatTurnToModel(t *entity.ChatTurn) *model.ChatTurn {
	if t == nil {
		return nil
	}
	return &model.ChatTurn{
		Id:            t.Id,
		LoanSessionId: t.LoanSessionId,
		Role:          t.Role,
		Text:          t.Text,
		Seq:           t.Seq,
		CreatedAt:     t.CreatedAt,
	}
}

// Audit Mappers

func (m *IntakeMapper) AuditEntryToEntity(a *model.AuditEntry) *entity.AuditEntry {
	if a == nil {
		return nil
	}

	var detail map[string]interface{}
	if len(a.Detail) > 0 {
		_ = json.Unmarshal(a.Detail, &detail)
	}

	return &entity.AuditEntry{
		Id:            a.Id,
		LoanSessionId: a.LoanSessionId,
		EventType:     a.EventType,
		Detail:        detail,
		CreatedAt:     a.CreatedAt,
	}
}

func (m *IntakeMapper) AuditEntryToModel(a *entity.AuditEntry) *model.AuditEntry {
	if a == nil {
		return nil
	}

	detailJSON, err := json.Marshal(a.Detail)
	if err != nil {
		detailJSON = []byte("{}")
	}

	return &model.AuditEntry{
		Id:            a.Id,
		LoanSessionId: a.LoanSessionId,
		EventType:     a.EventType,
		Detail:        datatypes.JSON(detailJSON),
		CreatedAt:     a.CreatedAt,
	}
}
