package wage

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Summary is the attendance and payout of one labourer for one month.
type Summary struct {
	LabourID           int     `json:"labour_id"`
	Year               int     `json:"year"`
	Month              int     `json:"month"`
	MonthYear          string  `json:"month_year"`
	DaysInMonth        int     `json:"days_in_month"`
	CountableDays      int     `json:"total_countable_days"`
	PresentDays        int     `json:"present_days"`
	AbsentDays         int     `json:"absent_days"`
	ExplicitlyAbsent   int     `json:"explicitly_absent"`
	DaysWithoutEntries int     `json:"days_without_entries"`
	DaysWithEntries    int     `json:"days_with_entries"`
	DaysOutsideWindow  int     `json:"days_outside_window"`
	TotalEntries       int     `json:"total_entries"`
	PresentPercentage  float64 `json:"present_percentage"`
	AbsentPercentage   float64 `json:"absent_percentage"`
	IsCurrentMonth     bool    `json:"is_current_month"`
	IsFutureMonth      bool    `json:"is_future_month"`

	Penalty

	TotalWorkAmount float64 `json:"total_work_amount"`
	AdvancePayment  float64 `json:"advance_payment"`
	PayableAmount   float64 `json:"total_money_payable"`
	NegativePayable bool    `json:"negative_payable"`
}

// Calculator computes monthly summaries under a fixed policy.
type Calculator struct {
	policy Policy
}

func NewCalculator(policy Policy) *Calculator {
	return &Calculator{policy: policy}
}

// Policy returns the policy the calculator applies.
func (c *Calculator) Policy() Policy {
	return c.policy
}

// ComputeMonthlyWage summarizes entries under DefaultPolicy.
func ComputeMonthlyWage(labour Labourer, entries []Entry, year, month int, today time.Time) (Summary, error) {
	return NewCalculator(DefaultPolicy()).ComputeMonthlyWage(labour, entries, year, month, today)
}

// ComputeMonthlyWage summarizes the entries of labour for year/month as seen on
// today. It fails with ErrInvalidPeriod for a bad year/month, ErrForeignEntry
// for an entry of another labourer and ErrEntryOutsidePeriod for an entry dated
// outside year/month.
func (c *Calculator) ComputeMonthlyWage(labour Labourer, entries []Entry, year, month int, today time.Time) (Summary, error) {
	daysInMonth, err := DaysInMonth(year, month)
	if err != nil {
		return Summary{}, err
	}

	daily := make(map[int]Status, daysInMonth)
	work := decimal.Zero

	for _, e := range entries {
		if e.LabourID != labour.ID {
			return Summary{}, errors.Wrapf(ErrForeignEntry, "entry %d: labour %d, want %d", e.ID, e.LabourID, labour.ID)
		}
		if e.Timestamp.Year() != year || int(e.Timestamp.Month()) != month {
			return Summary{}, errors.Wrapf(ErrEntryOutsidePeriod, "entry %d dated %s", e.ID, e.Timestamp.Format("2006-01-02"))
		}

		work = work.Add(decimal.NewFromFloat(e.Amount))

		day := e.Timestamp.Day()
		if daily[day] != Present {
			daily[day] = normalize(e.Status)
		}
	}

	window := CountableDays(year, month, daysInMonth, today)

	var present, absent, outside int
	for day, status := range daily {
		if day > window {
			outside++
			continue
		}
		if status == Present {
			present++
		} else {
			absent++
		}
	}

	withoutEntries := window - present - absent
	absentDays := withoutEntries + absent

	s := Summary{
		LabourID:           labour.ID,
		Year:               year,
		Month:              month,
		MonthYear:          time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
		DaysInMonth:        daysInMonth,
		CountableDays:      window,
		PresentDays:        present,
		AbsentDays:         absentDays,
		ExplicitlyAbsent:   absent,
		DaysWithoutEntries: withoutEntries,
		DaysWithEntries:    len(daily),
		DaysOutsideWindow:  outside,
		TotalEntries:       len(entries),
		PresentPercentage:  percentage(present, window),
		AbsentPercentage:   percentage(absentDays, window),
		IsCurrentMonth:     comparePeriod(year, month, today) == 0,
		IsFutureMonth:      comparePeriod(year, month, today) > 0,
		Penalty:            c.policy.Penalty(absentDays),
		AdvancePayment:     labour.AdvancePayment,
	}

	payable := work.
		Sub(decimal.NewFromFloat(s.TotalPenalty)).
		Sub(decimal.NewFromFloat(s.InsuranceAmount)).
		Sub(decimal.NewFromFloat(labour.AdvancePayment))

	s.TotalWorkAmount = work.InexactFloat64()
	s.PayableAmount = payable.InexactFloat64()
	s.NegativePayable = payable.IsNegative()

	return s, nil
}

// DaysInMonth returns the length of month in year.
func DaysInMonth(year, month int) (int, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return 0, errors.Wrapf(ErrInvalidPeriod, "%04d-%02d", year, month)
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day(), nil
}

// CountableDays is the number of days of the month that have already
// happened on today: all of a past month, up to today in the current month,
// none of a future month.
func CountableDays(year, month, daysInMonth int, today time.Time) int {
	switch cmp := comparePeriod(year, month, today); {
	case cmp < 0:
		return daysInMonth
	case cmp == 0:
		if today.Day() < daysInMonth {
			return today.Day()
		}
		return daysInMonth
	default:
		return 0
	}
}

// comparePeriod orders year/month against the month containing today.
func comparePeriod(year, month int, today time.Time) int {
	a := year*12 + month
	b := today.Year()*12 + int(today.Month())
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func normalize(s Status) Status {
	if st, err := ParseStatus(string(s)); err == nil {
		return st
	}
	return Absent
}

// percentage is part/whole*100 rounded to one decimal, 0 for an empty whole.
func percentage(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(1).
		InexactFloat64()
}
