package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishAuditMessage is the payload carried on the in-process audit
// topic after a turn commits.
type PublishAuditMessage struct {
	LoanSessionId uuid.UUID              `json:"loan_session_id"`
	EventType     string                 `json:"event_type"`
	Detail        map[string]interface{} `json:"detail"`
}

type AuditEntryResponse struct {
	Id            uuid.UUID              `json:"id"`
	LoanSessionId uuid.UUID              `json:"loan_session_id"`
	EventType     string                 `json:"event_type"`
	Detail        map[string]interface{} `json:"detail,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}
