package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRequest struct {
	// Client-generated; omitted on very first contact, in which case
	// the server mints one and returns it.
	SessionId string `json:"session_id" validate:"omitempty,uuid"`
	Message   string `json:"message" validate:"required"`
}

type ChatResponseData struct {
	LetterURL string `json:"letter_url"`
}

type ChatResponse struct {
	SessionId string            `json:"session_id"`
	Reply     string            `json:"reply"`
	Stage     string            `json:"stage"`
	UiAction  string            `json:"ui_action,omitempty"`
	Data      *ChatResponseData `json:"data,omitempty"`
}

type ChatHistoryResponse struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Seq       int       `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionSummaryResponse struct {
	Id             uuid.UUID `json:"id"`
	Stage          string    `json:"stage"`
	ArtifactIssued bool      `json:"artifact_issued"`
	CreatedAt      time.Time `json:"created_at"`
}
