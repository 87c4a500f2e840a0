package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a concluded turn or a defect for the ops surface.
type AuditEntry struct {
	Id            uuid.UUID
	LoanSessionId uuid.UUID
	EventType     string
	Detail        map[string]interface{}
	CreatedAt     time.Time
}
