package credit

import "loan-assist-be/internal/entity"

// Rule is one disqualification check. Ready reports whether the facts
// it depends on are populated; Violated is only consulted when Ready
// is true. Rules are evaluated in order after every accepted fact, so
// a disqualifying condition ends the intake as early as its inputs
// allow.
type Rule struct {
	Name        string
	Explanation string
	Ready       func(f entity.Facts) bool
	Violated    func(f entity.Facts, p Policy) bool
}

func disqualificationRules() []Rule {
	return []Rule{
		{
			Name:        "min_income",
			Explanation: "Monthly income below minimum eligibility threshold",
			Ready:       func(f entity.Facts) bool { return f.Income != nil },
			Violated: func(f entity.Facts, p Policy) bool {
				return *f.Income < p.MinMonthlyIncome
			},
		},
		{
			Name:        "obligation_ratio",
			Explanation: "FOIR too high based on existing obligations",
			Ready:       func(f entity.Facts) bool { return f.Income != nil && f.Emi != nil },
			Violated: func(f entity.Facts, p Policy) bool {
				return *f.Income > 0 && *f.Emi / *f.Income > p.MaxFoir
			},
		},
		{
			Name:        "invalid_tenure",
			Explanation: "Invalid loan tenure",
			Ready:       func(f entity.Facts) bool { return f.Tenure != nil },
			Violated: func(f entity.Facts, p Policy) bool {
				return *f.Tenure <= 0
			},
		},
	}
}
