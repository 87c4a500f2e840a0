package sanction

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"loan-assist-be/internal/entity"
	"loan-assist-be/pkg/token"

	"github.com/google/uuid"
)

// Issuance is the one-time-retrievable reference to a rendered letter.
type Issuance struct {
	LetterURL string
}

// Issuer produces the sanction artifact for an approved session.
// Implementations must be safe to retry: the caller guards at-most-once
// issuance per session with the session's artifact flag.
type Issuer interface {
	Issue(ctx context.Context, session *entity.LoanSession, approvedAmount float64) (*Issuance, error)
}

type Config struct {
	OutputDir    string
	CompanyName  string
	Website      string
	InterestRate float64
}

// LetterIssuer renders the letter to disk and registers a one-time
// download token for it.
type LetterIssuer struct {
	cfg      Config
	renderer Renderer
	tokens   token.Store
	now      func() time.Time
}

func NewLetterIssuer(cfg Config, renderer Renderer, tokens token.Store) *LetterIssuer {
	return &LetterIssuer{
		cfg:      cfg,
		renderer: renderer,
		tokens:   tokens,
		now:      time.Now,
	}
}

func (i *LetterIssuer) Issue(ctx context.Context, session *entity.LoanSession, approvedAmount float64) (*Issuance, error) {
	if session.Facts.Name == nil || session.Facts.Tenure == nil {
		return nil, fmt.Errorf("session %s missing facts required for issuance", session.Id)
	}

	name := titleCase(*session.Facts.Name)

	if err := os.MkdirAll(i.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create letter directory: %w", err)
	}

	safeName := strings.ReplaceAll(name, " ", "_")
	filePath := filepath.Join(i.cfg.OutputDir, fmt.Sprintf("sanction_%s.%s", safeName, i.renderer.Extension()))

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("create letter file: %w", err)
	}
	defer f.Close()

	letter := Letter{
		CompanyName:    i.cfg.CompanyName,
		Website:        i.cfg.Website,
		BorrowerName:   name,
		ApprovedAmount: approvedAmount,
		InterestRate:   i.cfg.InterestRate,
		TenureMonths:   *session.Facts.Tenure,
		SanctionDate:   i.now(),
	}

	// The password never leaves the issuer; the applicant receives it
	// through a separate channel.
	if err := i.renderer.Render(f, letter, derivePassword(name)); err != nil {
		return nil, fmt.Errorf("render letter: %w", err)
	}

	downloadToken := uuid.NewString()
	if err := i.tokens.Put(ctx, downloadToken, filePath); err != nil {
		return nil, fmt.Errorf("register letter token: %w", err)
	}

	return &Issuance{LetterURL: "/letters/" + downloadToken}, nil
}

func derivePassword(name string) string {
	first := strings.Fields(name)
	if len(first) == 0 {
		return ""
	}
	return strings.ToLower(first[0])
}

func titleCase(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
