package intake

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"loan-assist-be/internal/constant"
	"loan-assist-be/internal/entity"
	"loan-assist-be/pkg/credit"
	"loan-assist-be/pkg/extract"
	"loan-assist-be/pkg/kyc"
	"loan-assist-be/pkg/sanction"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIssuer counts issuances so the at-most-once property can be
// asserted directly.
type fakeIssuer struct {
	calls   int
	failErr error
}

func (f *fakeIssuer) Issue(ctx context.Context, session *entity.LoanSession, approvedAmount float64) (*sanction.Issuance, error) {
	f.calls++
	if f.failErr != nil {
		return nil, f.failErr
	}
	return &sanction.Issuance{LetterURL: fmt.Sprintf("/letters/%s", uuid.New())}, nil
}

type failingExtractor struct {
	err error
}

func (f *failingExtractor) Extract(ctx context.Context, stage, text string) (*extract.Field, error) {
	return nil, f.err
}

type rejectingVerifier struct{}

func (rejectingVerifier) Verify(ctx context.Context, pan string) (*kyc.Result, error) {
	return &kyc.Result{Verified: false, Reason: "not found in registry"}, nil
}

func newTestMachine(issuer sanction.Issuer) *Machine {
	return NewMachine(
		Config{InterestRateAnnual: 12.0},
		extract.NewRuleExtractor(),
		kyc.NewFormatVerifier(),
		credit.NewRuleEvaluator(credit.Policy{
			MinMonthlyIncome:   25000,
			MaxFoir:            0.45,
			InterestRateAnnual: 12.0,
		}),
		issuer,
	)
}

func newSession() *entity.LoanSession {
	return &entity.LoanSession{
		Id:    uuid.New(),
		Stage: constant.StageAskName,
	}
}

func step(t *testing.T, m *Machine, s *entity.LoanSession, text string) *StepResult {
	t.Helper()
	res, err := m.Step(context.Background(), s, text)
	require.NoError(t, err)
	return res
}

func TestStepHappyPathToApproval(t *testing.T) {
	issuer := &fakeIssuer{}
	m := newTestMachine(issuer)
	s := newSession()

	// Name buried in a longer sentence is still extracted.
	res := step(t, m, s, "Please don't approve yet, my name is Asha Rao")
	assert.Equal(t, constant.StageAskPan, s.Stage)
	assert.Equal(t, "Asha Rao", *s.Facts.Name)
	assert.Contains(t, res.Reply, "Asha Rao")
	assert.Equal(t, constant.AgentIdentity, res.AgentLabel)

	res = step(t, m, s, "abcde 1234 f")
	assert.Equal(t, constant.StageAskIncome, s.Stage)
	assert.Equal(t, "ABCDE1234F", *s.Facts.Pan)
	assert.Equal(t, constant.AgentEligibility, res.AgentLabel)

	step(t, m, s, "85,000")
	assert.Equal(t, constant.StageAskEmi, s.Stage)

	step(t, m, s, "none")
	assert.Equal(t, constant.StageAskAmount, s.Stage)
	assert.Equal(t, float64(0), *s.Facts.Emi)

	step(t, m, s, "300000")
	assert.Equal(t, constant.StageAskTenure, s.Stage)

	res = step(t, m, s, "24")
	assert.Equal(t, constant.StageCompleted, s.Stage)
	assert.Equal(t, float64(300000), s.ApprovedAmount)
	assert.True(t, s.ArtifactIssued)
	assert.Equal(t, constant.UiActionShowSanctionDownload, res.UiAction)
	assert.NotEmpty(t, res.LetterURL)
	assert.Equal(t, constant.AgentDocument, res.AgentLabel)
	assert.Equal(t, 1, issuer.calls)
}

func TestStepExtractionFailureLoopsSameStage(t *testing.T) {
	m := newTestMachine(&fakeIssuer{})
	s := newSession()

	before := s.Clone()
	res := step(t, m, s, "hi")

	assert.Equal(t, constant.StageAskName, s.Stage)
	assert.Equal(t, before.Facts, s.Facts)
	assert.Equal(t, constant.ReplyAskName, res.Reply)

	// Retries are unlimited; the third attempt still succeeds.
	step(t, m, s, "yo")
	step(t, m, s, "Asha Rao")
	assert.Equal(t, constant.StageAskPan, s.Stage)
}

func TestStepEagerDisqualification(t *testing.T) {
	t.Run("low income rejects before emi is asked", func(t *testing.T) {
		m := newTestMachine(&fakeIssuer{})
		s := newSession()

		step(t, m, s, "Priya Verma")
		step(t, m, s, "XYZAB5678K")
		res := step(t, m, s, "20000")

		assert.Equal(t, constant.StageRejected, s.Stage)
		assert.Contains(t, res.Reply, "Monthly income below minimum eligibility threshold")
	})

	t.Run("existing emi over ratio rejects before amount is asked", func(t *testing.T) {
		m := newTestMachine(&fakeIssuer{})
		s := newSession()

		step(t, m, s, "Amit Patel")
		step(t, m, s, "PQRST9012L")
		step(t, m, s, "50000")
		res := step(t, m, s, "30000")

		assert.Equal(t, constant.StageRejected, s.Stage)
		assert.Contains(t, res.Reply, "FOIR too high based on existing obligations")
		assert.Nil(t, s.Facts.Amount)
		assert.Nil(t, s.Facts.Tenure)
	})
}

func TestStepPanVerificationRejection(t *testing.T) {
	m := NewMachine(
		Config{InterestRateAnnual: 12.0},
		extract.NewRuleExtractor(),
		rejectingVerifier{},
		credit.NewRuleEvaluator(credit.Policy{MinMonthlyIncome: 25000, MaxFoir: 0.45}),
		&fakeIssuer{},
	)
	s := newSession()

	step(t, m, s, "Asha Rao")
	res := step(t, m, s, "ABCDE1234F")

	assert.Equal(t, constant.StageRejected, s.Stage)
	assert.Equal(t, constant.ReplyPanRejected, res.Reply)
}

func TestStepTerminalIdempotence(t *testing.T) {
	t.Run("rejected stays rejected", func(t *testing.T) {
		m := newTestMachine(&fakeIssuer{})
		s := newSession()
		s.Stage = constant.StageRejected

		res := step(t, m, s, "85000")
		assert.Equal(t, constant.StageRejected, s.Stage)
		assert.Equal(t, constant.ReplyAlreadyRejected, res.Reply)
		assert.Empty(t, res.UiAction)
	})

	t.Run("completed with issued artifact returns no new ui action", func(t *testing.T) {
		issuer := &fakeIssuer{}
		m := newTestMachine(issuer)
		s := newSession()
		walkToApproval(t, m, s)
		require.Equal(t, 1, issuer.calls)

		res := step(t, m, s, "thanks")
		assert.Equal(t, constant.StageCompleted, s.Stage)
		assert.Equal(t, constant.ReplyAlreadyCompleted, res.Reply)
		assert.Empty(t, res.UiAction)
		assert.Equal(t, 1, issuer.calls)
	})
}

func TestStepIssuanceFailureRecovery(t *testing.T) {
	issuer := &fakeIssuer{failErr: errors.New("disk full")}
	m := newTestMachine(issuer)
	s := newSession()

	step(t, m, s, "Asha Rao")
	step(t, m, s, "ABCDE1234F")
	step(t, m, s, "85000")
	step(t, m, s, "none")
	step(t, m, s, "300000")
	res := step(t, m, s, "24")

	// Approval stands even though issuance failed.
	assert.Equal(t, constant.StageCompleted, s.Stage)
	assert.False(t, s.ArtifactIssued)
	assert.Empty(t, res.UiAction)
	assert.Error(t, res.IssueErr)

	// Re-query retries issuance once the issuer is healthy.
	issuer.failErr = nil
	res = step(t, m, s, "hello again")
	assert.True(t, s.ArtifactIssued)
	assert.Equal(t, constant.UiActionShowSanctionDownload, res.UiAction)
	assert.NotEmpty(t, res.LetterURL)
	assert.Equal(t, 2, issuer.calls)
}

func TestStepTransientExtractorFailure(t *testing.T) {
	m := NewMachine(
		Config{InterestRateAnnual: 12.0},
		&failingExtractor{err: context.DeadlineExceeded},
		kyc.NewFormatVerifier(),
		credit.NewRuleEvaluator(credit.Policy{MinMonthlyIncome: 25000, MaxFoir: 0.45}),
		&fakeIssuer{},
	)
	s := newSession()
	before := s.Clone()

	_, err := m.Step(context.Background(), s, "Asha Rao")
	require.Error(t, err)
	assert.True(t, IsTransient(err))

	// Nothing was mutated.
	assert.Equal(t, before.Stage, s.Stage)
	assert.Equal(t, before.Facts, s.Facts)
}

func TestWriteFactOnceOnly(t *testing.T) {
	s := newSession()
	name := "Asha Rao"
	s.Facts.Name = &name

	err := writeFact(s, &extract.Field{Key: constant.FactName, Str: "Someone Else"})
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err))
	assert.Equal(t, "Asha Rao", *s.Facts.Name)
}

func TestStageOrderNeverDecreases(t *testing.T) {
	m := newTestMachine(&fakeIssuer{})
	s := newSession()

	indexOf := func(stage string) int {
		for i, st := range stageOrder {
			if st == stage {
				return i
			}
		}
		// Terminal stages sort after every asking stage.
		return len(stageOrder)
	}

	inputs := []string{"hi", "Asha Rao", "nope", "ABCDE1234F", "85000", "none", "300000", "24", "again"}
	prev := indexOf(s.Stage)
	for _, in := range inputs {
		step(t, m, s, in)
		cur := indexOf(s.Stage)
		assert.GreaterOrEqual(t, cur, prev, "stage regressed on input %q", in)
		prev = cur
	}
	assert.Equal(t, constant.StageCompleted, s.Stage)
}

func walkToApproval(t *testing.T, m *Machine, s *entity.LoanSession) {
	t.Helper()
	for _, in := range []string{"Asha Rao", "ABCDE1234F", "85000", "none", "300000", "24"} {
		step(t, m, s, in)
	}
	require.Equal(t, constant.StageCompleted, s.Stage)
}
