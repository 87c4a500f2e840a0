package credit

import (
	"context"
	"testing"

	"loan-assist-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return Policy{
		MinMonthlyIncome:   25000,
		MaxFoir:            0.45,
		InterestRateAnnual: 12.0,
	}
}

func facts(income, emi, amount *float64, tenure *int) entity.Facts {
	return entity.Facts{Income: income, Emi: emi, Amount: amount, Tenure: tenure}
}

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestDisqualify(t *testing.T) {
	tests := []struct {
		name             string
		facts            entity.Facts
		wantDisqualified bool
		wantReason       string
	}{
		{
			name:             "no facts yet",
			facts:            facts(nil, nil, nil, nil),
			wantDisqualified: false,
		},
		{
			name:             "income below minimum",
			facts:            facts(f64(20000), nil, nil, nil),
			wantDisqualified: true,
			wantReason:       "Monthly income below minimum eligibility threshold",
		},
		{
			name:             "income at minimum passes",
			facts:            facts(f64(25000), nil, nil, nil),
			wantDisqualified: false,
		},
		{
			name:             "existing emi alone breaches ratio",
			facts:            facts(f64(50000), f64(30000), nil, nil),
			wantDisqualified: true,
			wantReason:       "FOIR too high based on existing obligations",
		},
		{
			name:             "existing emi within ratio",
			facts:            facts(f64(50000), f64(20000), nil, nil),
			wantDisqualified: false,
		},
		{
			name:             "zero tenure",
			facts:            facts(f64(85000), f64(0), f64(300000), i(0)),
			wantDisqualified: true,
			wantReason:       "Invalid loan tenure",
		},
	}

	e := NewRuleEvaluator(testPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, disqualified, err := e.Disqualify(context.Background(), tt.facts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDisqualified, disqualified)
			if tt.wantDisqualified {
				assert.Equal(t, tt.wantReason, reason)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	e := NewRuleEvaluator(testPolicy())

	t.Run("requires full fact set", func(t *testing.T) {
		_, err := e.Evaluate(context.Background(), facts(f64(85000), f64(0), f64(300000), nil))
		assert.Error(t, err)
	})

	t.Run("approved full requested amount", func(t *testing.T) {
		d, err := e.Evaluate(context.Background(), facts(f64(85000), f64(0), f64(300000), i(24)))
		require.NoError(t, err)
		assert.True(t, d.Approved)
		assert.Equal(t, float64(300000), d.ApprovedAmount)
		assert.Equal(t, RiskBandLow, d.RiskBand)
		// proposed emi 12500 over income 85000
		assert.InDelta(t, 0.15, d.Foir, 0.005)
	})

	t.Run("approved amount capped at affordability", func(t *testing.T) {
		// max affordable emi = 40000*0.45 - 0 = 18000, over 12 months = 216000
		d, err := e.Evaluate(context.Background(), facts(f64(40000), f64(0), f64(500000), i(12)))
		require.NoError(t, err)
		assert.True(t, d.Approved)
		assert.Equal(t, float64(216000), d.ApprovedAmount)
		assert.Equal(t, float64(216000), d.MaxEligibleAmount)
	})

	t.Run("medium risk band above 30 percent foir", func(t *testing.T) {
		// proposed emi 15000 + existing 5000 over 50000 = 0.40
		d, err := e.Evaluate(context.Background(), facts(f64(50000), f64(5000), f64(180000), i(12)))
		require.NoError(t, err)
		assert.True(t, d.Approved)
		assert.Equal(t, RiskBandMedium, d.RiskBand)
	})

	t.Run("rejected when combined foir breaches limit", func(t *testing.T) {
		// proposed emi 25000 + existing 10000 over 60000 = 0.583
		d, err := e.Evaluate(context.Background(), facts(f64(60000), f64(10000), f64(300000), i(12)))
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, []string{"FOIR too high based on existing obligations"}, d.Reasons)
		assert.Equal(t, RiskBandHigh, d.RiskBand)
	})

	t.Run("rejected via disqualification rule", func(t *testing.T) {
		d, err := e.Evaluate(context.Background(), facts(f64(20000), f64(0), f64(100000), i(12)))
		require.NoError(t, err)
		assert.False(t, d.Approved)
		assert.Equal(t, []string{"Monthly income below minimum eligibility threshold"}, d.Reasons)
	})
}
