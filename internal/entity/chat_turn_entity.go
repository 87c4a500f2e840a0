package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurn struct {
	Id            uuid.UUID
	LoanSessionId uuid.UUID
	Role          string
	Text          string
	Seq           int
	CreatedAt     time.Time
}
