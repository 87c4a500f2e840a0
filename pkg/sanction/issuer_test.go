package sanction

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"loan-assist-be/internal/entity"
	"loan-assist-be/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{85000, "85,000"},
		{300000, "300,000"},
		{1234567, "1,234,567"},
		{216000.75, "216,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount))
	}
}

func TestTextRendererContent(t *testing.T) {
	var buf bytes.Buffer
	letter := Letter{
		CompanyName:    "ARMEK Financial Services",
		Website:        "www.armekfinance.com",
		BorrowerName:   "Asha Rao",
		ApprovedAmount: 300000,
		InterestRate:   12.0,
		TenureMonths:   24,
		SanctionDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, NewTextRenderer().Render(&buf, letter, "asha"))
	out := buf.String()

	assert.Contains(t, out, "LOAN SANCTION LETTER")
	assert.Contains(t, out, "Asha Rao")
	assert.Contains(t, out, "INR 300,000")
	assert.Contains(t, out, "24 months")
	assert.Contains(t, out, "31 Aug 2026")
	// The password is out-of-band; it must never appear in the letter.
	assert.NotContains(t, out, "asha\n")
}

func TestLetterIssuer(t *testing.T) {
	dir := t.TempDir()
	tokens := token.NewMemoryStore(time.Minute)
	issuer := NewLetterIssuer(Config{
		OutputDir:    dir,
		CompanyName:  "ARMEK Financial Services",
		Website:      "www.armekfinance.com",
		InterestRate: 12.0,
	}, NewTextRenderer(), tokens)

	name := "asha rao"
	tenure := 24
	session := &entity.LoanSession{
		Id:    uuid.New(),
		Facts: entity.Facts{Name: &name, Tenure: &tenure},
	}

	issuance, err := issuer.Issue(context.Background(), session, 300000)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(issuance.LetterURL, "/letters/"))

	// The URL carries an opaque token resolvable exactly once.
	tok := strings.TrimPrefix(issuance.LetterURL, "/letters/")
	path, found, err := tokens.Take(context.Background(), tok)
	require.NoError(t, err)
	require.True(t, found)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Asha Rao")
	assert.Contains(t, string(content), "300,000")

	_, found, err = tokens.Take(context.Background(), tok)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLetterIssuerRequiresFacts(t *testing.T) {
	issuer := NewLetterIssuer(Config{OutputDir: t.TempDir()}, NewTextRenderer(), token.NewMemoryStore(time.Minute))

	_, err := issuer.Issue(context.Background(), &entity.LoanSession{Id: uuid.New()}, 100000)
	assert.Error(t, err)
}

func TestDerivePassword(t *testing.T) {
	assert.Equal(t, "asha", derivePassword("Asha Rao"))
	assert.Equal(t, "rohan", derivePassword("Rohan"))
	assert.Equal(t, "", derivePassword("  "))
}
