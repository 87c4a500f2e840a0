package entity

import (
	"time"

	"github.com/google/uuid"
)

// Facts holds the validated applicant data collected over the
// conversation. A nil field has not been collected yet; once set it is
// never overwritten.
type Facts struct {
	Name   *string  `json:"name,omitempty"`
	Pan    *string  `json:"pan,omitempty"`
	Income *float64 `json:"income,omitempty"`
	Emi    *float64 `json:"emi,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
	Tenure *int     `json:"tenure,omitempty"`
}

type LoanSession struct {
	Id             uuid.UUID
	Stage          string
	Facts          Facts
	ApprovedAmount float64
	ArtifactIssued bool
	LetterURL      string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// Clone returns a deep copy so the stage machine can mutate a working
// copy while the caller keeps the loaded snapshot for fail-closed paths.
func (s *LoanSession) Clone() *LoanSession {
	c := *s
	c.Facts = Facts{
		Name:   clonePtr(s.Facts.Name),
		Pan:    clonePtr(s.Facts.Pan),
		Income: clonePtr(s.Facts.Income),
		Emi:    clonePtr(s.Facts.Emi),
		Amount: clonePtr(s.Facts.Amount),
		Tenure: clonePtr(s.Facts.Tenure),
	}
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
