package kyc

import "context"

// Result of a PAN verification check.
type Result struct {
	Verified bool
	Reason   string
}

// Verifier checks an applicant's PAN against a KYC source. The default
// implementation validates format only; a bureau-backed implementation
// slots in behind the same interface.
type Verifier interface {
	Verify(ctx context.Context, pan string) (*Result, error)
}

type FormatVerifier struct{}

func NewFormatVerifier() *FormatVerifier {
	return &FormatVerifier{}
}

func (v *FormatVerifier) Verify(ctx context.Context, pan string) (*Result, error) {
	if pan == "" {
		return &Result{Verified: false, Reason: "PAN not provided"}, nil
	}
	if len(pan) != 10 {
		return &Result{Verified: false, Reason: "Invalid PAN length"}, nil
	}
	return &Result{Verified: true, Reason: "PAN format verified successfully"}, nil
}
