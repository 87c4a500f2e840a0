package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByLoanSessionID struct {
	LoanSessionID uuid.UUID
}

func (s ByLoanSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("loan_session_id = ?", s.LoanSessionID)
}

type ByStage struct {
	Stage string
}

func (s ByStage) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stage = ?", s.Stage)
}

type ByEventType struct {
	EventType string
}

func (s ByEventType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("event_type = ?", s.EventType)
}
