package sanction

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Letter is the renderer-independent content of a sanction letter.
type Letter struct {
	CompanyName    string
	Website        string
	BorrowerName   string
	ApprovedAmount float64
	InterestRate   float64
	TenureMonths   int
	SanctionDate   time.Time
}

// Renderer writes a letter to w. The password protects the rendered
// document where the format supports it; the plain-text renderer
// ignores it. A PDF renderer sits behind the same interface in the
// document service.
type Renderer interface {
	Render(w io.Writer, letter Letter, password string) error
	Extension() string
}

type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Extension() string { return "txt" }

func (r *TextRenderer) Render(w io.Writer, letter Letter, _ string) error {
	divider := strings.Repeat("-", 60)

	_, err := fmt.Fprintf(w, `%s
LOAN SANCTION LETTER
%s
%s

Borrower Name   : %s
Sanction Date   : %s
Loan Type       : Personal Loan

KEY FACT SHEET
%s
Approved Amount : INR %s
Interest Rate   : %.2f%% per annum
Tenure          : %d months
Repayment Mode  : Monthly EMI
Interest Type   : Fixed
%s

This loan is sanctioned subject to completion of documentation,
verification, and internal credit policies of the company. This is a
system-generated document and does not require a physical signature.

For %s
Authorized Credit Team
%s
`,
		divider,
		letter.CompanyName,
		divider,
		letter.BorrowerName,
		letter.SanctionDate.Format("02 Jan 2006"),
		divider,
		FormatAmount(letter.ApprovedAmount),
		letter.InterestRate,
		letter.TenureMonths,
		divider,
		letter.CompanyName,
		letter.Website,
	)
	return err
}

// FormatAmount renders a whole rupee amount with thousands separators.
func FormatAmount(amount float64) string {
	n := int64(amount)
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
