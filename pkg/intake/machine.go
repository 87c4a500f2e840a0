package intake

import (
	"context"
	"errors"
	"fmt"

	"loan-assist-be/internal/constant"
	"loan-assist-be/internal/entity"
	"loan-assist-be/pkg/credit"
	"loan-assist-be/pkg/extract"
	"loan-assist-be/pkg/kyc"
	"loan-assist-be/pkg/sanction"
)

// StepResult is the outcome of one user turn. Session is the mutated
// working copy the caller persists; IssueErr reports a swallowed
// issuance failure on an otherwise successful approval turn.
type StepResult struct {
	Session    *entity.LoanSession
	Reply      string
	AgentLabel string
	UiAction   string
	LetterURL  string
	IssueErr   error
}

type Config struct {
	InterestRateAnnual float64
}

// Machine drives a session through the fixed intake ordering
// ASK_NAME -> ASK_PAN -> ASK_INCOME -> ASK_EMI -> ASK_AMOUNT ->
// ASK_TENURE and into exactly one of COMPLETED or REJECTED. Step never
// mutates anything but the session it is handed, so callers pass a
// working copy and persist it only on success.
type Machine struct {
	cfg       Config
	extractor extract.Extractor
	verifier  kyc.Verifier
	evaluator credit.Evaluator
	issuer    sanction.Issuer
}

func NewMachine(
	cfg Config,
	extractor extract.Extractor,
	verifier kyc.Verifier,
	evaluator credit.Evaluator,
	issuer sanction.Issuer,
) *Machine {
	return &Machine{
		cfg:       cfg,
		extractor: extractor,
		verifier:  verifier,
		evaluator: evaluator,
		issuer:    issuer,
	}
}

var stageOrder = []string{
	constant.StageAskName,
	constant.StageAskPan,
	constant.StageAskIncome,
	constant.StageAskEmi,
	constant.StageAskAmount,
	constant.StageAskTenure,
}

var retryReplyByStage = map[string]string{
	constant.StageAskName:   constant.ReplyAskName,
	constant.StageAskPan:    constant.ReplyInvalidPan,
	constant.StageAskIncome: constant.ReplyInvalidIncome,
	constant.StageAskEmi:    constant.ReplyInvalidEmi,
	constant.StageAskAmount: constant.ReplyInvalidAmount,
	constant.StageAskTenure: constant.ReplyInvalidTenure,
}

// AgentFor maps a resulting stage to its attributed agent. Display
// metadata only; nothing in the machine branches on it.
func AgentFor(stage string) string {
	switch stage {
	case constant.StageAskPan:
		return constant.AgentIdentity
	case constant.StageAskIncome, constant.StageAskEmi, constant.StageAskAmount, constant.StageAskTenure:
		return constant.AgentEligibility
	case constant.StageCompleted:
		return constant.AgentDocument
	default:
		// Initial stage and rejection stay with the orchestrator.
		return constant.AgentOrchestrator
	}
}

func IsTerminal(stage string) bool {
	return stage == constant.StageCompleted || stage == constant.StageRejected
}

func (m *Machine) Step(ctx context.Context, session *entity.LoanSession, userText string) (*StepResult, error) {
	if IsTerminal(session.Stage) {
		return m.stepTerminal(ctx, session)
	}

	field, err := m.extractor.Extract(ctx, session.Stage, userText)
	if err != nil {
		if errors.Is(err, extract.ErrNoMatch) {
			// Retry loop: same stage, no fact written, reply guides the
			// user. There is deliberately no attempt cap here.
			return &StepResult{
				Session:    session,
				Reply:      retryReplyByStage[session.Stage],
				AgentLabel: AgentFor(session.Stage),
			}, nil
		}
		return nil, &TransientError{Op: "extract", Err: err}
	}

	if err := writeFact(session, field); err != nil {
		return nil, err
	}

	if session.Stage == constant.StageAskPan {
		verification, err := m.verifier.Verify(ctx, field.Str)
		if err != nil {
			return nil, &TransientError{Op: "verify", Err: err}
		}
		if !verification.Verified {
			session.Stage = constant.StageRejected
			return &StepResult{
				Session:    session,
				Reply:      constant.ReplyPanRejected,
				AgentLabel: AgentFor(session.Stage),
			}, nil
		}
	}

	// Eager disqualification: every rule whose inputs are now known
	// runs immediately, so a failing applicant is not walked through
	// the remaining questions first.
	if session.Stage != constant.StageAskTenure {
		reason, disqualified, err := m.evaluator.Disqualify(ctx, session.Facts)
		if err != nil {
			return nil, &TransientError{Op: "disqualify", Err: err}
		}
		if disqualified {
			session.Stage = constant.StageRejected
			return &StepResult{
				Session:    session,
				Reply:      fmt.Sprintf(constant.ReplyRejectedFormat, reason),
				AgentLabel: AgentFor(session.Stage),
			}, nil
		}
	}

	if session.Stage == constant.StageAskTenure {
		return m.conclude(ctx, session)
	}

	session.Stage = nextStage(session.Stage)
	return &StepResult{
		Session:    session,
		Reply:      m.questionFor(session),
		AgentLabel: AgentFor(session.Stage),
	}, nil
}

// stepTerminal answers idempotent re-queries against concluded
// sessions. A COMPLETED session whose earlier issuance failed gets a
// safe retry here.
func (m *Machine) stepTerminal(ctx context.Context, session *entity.LoanSession) (*StepResult, error) {
	if session.Stage == constant.StageRejected {
		return &StepResult{
			Session:    session,
			Reply:      constant.ReplyAlreadyRejected,
			AgentLabel: AgentFor(session.Stage),
		}, nil
	}

	result := &StepResult{
		Session:    session,
		Reply:      constant.ReplyAlreadyCompleted,
		AgentLabel: AgentFor(session.Stage),
	}

	if !session.ArtifactIssued {
		issuance, err := m.issuer.Issue(ctx, session, session.ApprovedAmount)
		if err != nil {
			result.IssueErr = err
			return result, nil
		}
		session.ArtifactIssued = true
		session.LetterURL = issuance.LetterURL
		result.UiAction = constant.UiActionShowSanctionDownload
		result.LetterURL = issuance.LetterURL
	}

	return result, nil
}

// conclude runs the full eligibility evaluation once the last required
// fact is in, and drives the terminal side effects.
func (m *Machine) conclude(ctx context.Context, session *entity.LoanSession) (*StepResult, error) {
	decision, err := m.evaluator.Evaluate(ctx, session.Facts)
	if err != nil {
		return nil, &TransientError{Op: "evaluate", Err: err}
	}

	if !decision.Approved {
		session.Stage = constant.StageRejected
		reason := "our internal affordability checks"
		if len(decision.Reasons) > 0 {
			reason = decision.Reasons[0]
		}
		return &StepResult{
			Session:    session,
			Reply:      constant.ReplyAssessmentPrefix + fmt.Sprintf(constant.ReplyRejectedFormat, reason),
			AgentLabel: AgentFor(session.Stage),
		}, nil
	}

	session.Stage = constant.StageCompleted
	session.ApprovedAmount = decision.ApprovedAmount

	result := &StepResult{
		Session: session,
		Reply: constant.ReplyAssessmentPrefix + fmt.Sprintf(
			constant.ReplyApprovedFormat,
			sanction.FormatAmount(decision.ApprovedAmount),
			*session.Facts.Tenure,
			m.cfg.InterestRateAnnual,
		),
		AgentLabel: AgentFor(session.Stage),
	}

	// Issuance is synchronous and at-most-once. A failure here still
	// leaves the session COMPLETED; the applicant just gets no download
	// this turn and a later re-query retries.
	issuance, err := m.issuer.Issue(ctx, session, decision.ApprovedAmount)
	if err != nil {
		result.IssueErr = err
		return result, nil
	}
	session.ArtifactIssued = true
	session.LetterURL = issuance.LetterURL
	result.UiAction = constant.UiActionShowSanctionDownload
	result.LetterURL = issuance.LetterURL

	return result, nil
}

func nextStage(stage string) string {
	for i, s := range stageOrder {
		if s == stage && i+1 < len(stageOrder) {
			return stageOrder[i+1]
		}
	}
	return stage
}

func (m *Machine) questionFor(session *entity.LoanSession) string {
	switch session.Stage {
	case constant.StageAskPan:
		name := ""
		if session.Facts.Name != nil {
			name = *session.Facts.Name
		}
		return fmt.Sprintf(constant.ReplyAskPanFormat, name)
	case constant.StageAskIncome:
		return constant.ReplyAskIncome
	case constant.StageAskEmi:
		return constant.ReplyAskEmi
	case constant.StageAskAmount:
		return constant.ReplyAskAmount
	case constant.StageAskTenure:
		return constant.ReplyAskTenure
	default:
		return constant.ReplyAskName
	}
}

// writeFact records an extracted field. Facts are write-once; an
// attempted overwrite is a defect, never silently patched.
func writeFact(session *entity.LoanSession, field *extract.Field) error {
	violation := func() error {
		return &InvariantViolationError{
			Stage: session.Stage,
			Field: field.Key,
			Msg:   "attempted overwrite of populated fact",
		}
	}

	switch field.Key {
	case constant.FactName:
		if session.Facts.Name != nil {
			return violation()
		}
		v := field.Str
		session.Facts.Name = &v
	case constant.FactPan:
		if session.Facts.Pan != nil {
			return violation()
		}
		v := field.Str
		session.Facts.Pan = &v
	case constant.FactIncome:
		if session.Facts.Income != nil {
			return violation()
		}
		v := field.Num
		session.Facts.Income = &v
	case constant.FactEmi:
		if session.Facts.Emi != nil {
			return violation()
		}
		v := field.Num
		session.Facts.Emi = &v
	case constant.FactAmount:
		if session.Facts.Amount != nil {
			return violation()
		}
		v := field.Num
		session.Facts.Amount = &v
	case constant.FactTenure:
		if session.Facts.Tenure != nil {
			return violation()
		}
		v := field.Int
		session.Facts.Tenure = &v
	default:
		return &InvariantViolationError{
			Stage: session.Stage,
			Field: field.Key,
			Msg:   "extractor produced an unknown fact key",
		}
	}
	return nil
}
