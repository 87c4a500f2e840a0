package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditEntry struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LoanSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	EventType     string         `gorm:"type:text;not null;index"`
	Detail        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
