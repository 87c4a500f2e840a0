package credit

import (
	"context"
	"fmt"
	"math"

	"loan-assist-be/internal/entity"
)

const (
	RiskBandLow    = "LOW"
	RiskBandMedium = "MEDIUM"
	RiskBandHigh   = "HIGH"
)

// Policy holds the affordability thresholds. Values are operator
// configuration and are never disclosed to applicants.
type Policy struct {
	MinMonthlyIncome   float64
	MaxFoir            float64
	InterestRateAnnual float64
}

// Decision is the outcome of a full eligibility evaluation.
type Decision struct {
	Approved          bool
	Reasons           []string
	ApprovedAmount    float64
	RequestedAmount   float64
	Foir              float64
	RiskBand          string
	MaxEligibleAmount float64
}

// Evaluator runs the affordability assessment over accumulated facts.
// Disqualify is the incremental variant the stage machine calls after
// every accepted fact; Evaluate requires the full fact set.
type Evaluator interface {
	Disqualify(ctx context.Context, facts entity.Facts) (reason string, disqualified bool, err error)
	Evaluate(ctx context.Context, facts entity.Facts) (*Decision, error)
}

type RuleEvaluator struct {
	policy Policy
	rules  []Rule
}

func NewRuleEvaluator(policy Policy) *RuleEvaluator {
	return &RuleEvaluator{
		policy: policy,
		rules:  disqualificationRules(),
	}
}

func (e *RuleEvaluator) Disqualify(ctx context.Context, facts entity.Facts) (string, bool, error) {
	for _, rule := range e.rules {
		if rule.Ready(facts) && rule.Violated(facts, e.policy) {
			return rule.Explanation, true, nil
		}
	}
	return "", false, nil
}

func (e *RuleEvaluator) Evaluate(ctx context.Context, facts entity.Facts) (*Decision, error) {
	if facts.Income == nil || facts.Emi == nil || facts.Amount == nil || facts.Tenure == nil {
		return nil, fmt.Errorf("evaluation requires income, emi, amount and tenure")
	}

	if reason, disqualified, err := e.Disqualify(ctx, facts); err != nil {
		return nil, err
	} else if disqualified {
		return &Decision{
			Approved: false,
			Reasons:  []string{reason},
			RiskBand: RiskBandHigh,
		}, nil
	}

	income := *facts.Income
	existingEmi := *facts.Emi
	requested := *facts.Amount
	tenure := *facts.Tenure

	// Flat approximation of the proposed EMI; the sanctioning system
	// recomputes with amortization before disbursal.
	proposedEmi := requested / float64(tenure)
	foir := (existingEmi + proposedEmi) / income

	if foir > e.policy.MaxFoir {
		return &Decision{
			Approved: false,
			Reasons:  []string{"FOIR too high based on existing obligations"},
			Foir:     round2(foir),
			RiskBand: RiskBandHigh,
		}, nil
	}

	riskBand := RiskBandMedium
	if foir <= 0.30 {
		riskBand = RiskBandLow
	}

	maxAffordableEmi := income*e.policy.MaxFoir - existingEmi
	maxEligible := math.Floor(maxAffordableEmi * float64(tenure))
	approved := math.Min(math.Floor(requested), maxEligible)

	return &Decision{
		Approved:          true,
		Reasons:           []string{"Eligible based on income, obligations, and tenure"},
		ApprovedAmount:    approved,
		RequestedAmount:   requested,
		Foir:              round2(foir),
		RiskBand:          riskBand,
		MaxEligibleAmount: maxEligible,
	}, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
