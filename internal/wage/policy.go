package wage

import "github.com/shopspring/decimal"

// Policy holds the deduction rules applied to a month of attendance.
type Policy struct {
	PenaltyPerDay     float64 `json:"penalty_per_day" yaml:"penalty_per_day"`
	AllowedAbsentDays int     `json:"allowed_absent_days" yaml:"allowed_absent_days"`
	InsuranceAmount   float64 `json:"insurance_amount" yaml:"insurance_amount"`
}

// DefaultPolicy is 25 per excess absent day, 2 free absent days and a flat 30 insurance.
func DefaultPolicy() Policy {
	return Policy{
		PenaltyPerDay:     25.0,
		AllowedAbsentDays: 2,
		InsuranceAmount:   30.0,
	}
}

// Penalty is the deduction breakdown for a number of absent days.
type Penalty struct {
	PenaltyDays       int     `json:"penalty_days"`
	TotalPenalty      float64 `json:"total_penalty"`
	PenaltyPerDay     float64 `json:"penalty_per_day"`
	AllowedAbsentDays int     `json:"allowed_absent_days"`
	InsuranceAmount   float64 `json:"insurance_amount"`
	TotalDeductions   float64 `json:"total_deductions"`
	HasPenalty        bool    `json:"has_penalty"`
}

// Penalty applies the policy to absentDays.
func (p Policy) Penalty(absentDays int) Penalty {
	days := absentDays - p.AllowedAbsentDays
	if days < 0 {
		days = 0
	}

	total := decimal.NewFromFloat(p.PenaltyPerDay).Mul(decimal.NewFromInt(int64(days)))
	insurance := decimal.NewFromFloat(p.InsuranceAmount)

	return Penalty{
		PenaltyDays:       days,
		TotalPenalty:      total.InexactFloat64(),
		PenaltyPerDay:     p.PenaltyPerDay,
		AllowedAbsentDays: p.AllowedAbsentDays,
		InsuranceAmount:   p.InsuranceAmount,
		TotalDeductions:   total.Add(insurance).InexactFloat64(),
		HasPenalty:        days > 0,
	}
}
