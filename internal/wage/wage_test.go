package wage

import (
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const labourID = 7

func day(year, month, d int) time.Time {
	return time.Date(year, time.Month(month), d, 9, 30, 0, 0, time.UTC)
}

func entry(d time.Time, status Status, amount float64) Entry {
	return Entry{LabourID: labourID, SiteID: 1, Timestamp: d, Status: status, Amount: amount}
}

// september builds entries for September 2026: present on [1, presentTo],
// absent on [presentTo+1, absentTo].
func september(presentTo, absentTo int, amount float64) []Entry {
	var entries []Entry
	for d := 1; d <= presentTo; d++ {
		entries = append(entries, entry(day(2026, 9, d), Present, amount))
	}
	for d := presentTo + 1; d <= absentTo; d++ {
		entries = append(entries, entry(day(2026, 9, d), Absent, 0))
	}
	return entries
}

func TestComputeMonthlyWage_FullCurrentMonth(t *testing.T) {
	today := day(2026, 9, 30)

	s, err := ComputeMonthlyWage(Labourer{ID: labourID}, september(28, 29, 0), 2026, 9, today)
	require.NoError(t, err)

	assert.Equal(t, 30, s.DaysInMonth)
	assert.Equal(t, 30, s.CountableDays)
	assert.Equal(t, 28, s.PresentDays)
	assert.Equal(t, 1, s.ExplicitlyAbsent)
	assert.Equal(t, 1, s.DaysWithoutEntries)
	assert.Equal(t, 2, s.AbsentDays)
	assert.Equal(t, 0, s.PenaltyDays)
	assert.Equal(t, 0.0, s.TotalPenalty)
	assert.True(t, s.IsCurrentMonth)
	assert.False(t, s.IsFutureMonth)
	assert.Equal(t, "September 2026", s.MonthYear)
}

func TestComputeMonthlyWage_PenaltyForExcessAbsence(t *testing.T) {
	today := day(2026, 9, 30)

	s, err := ComputeMonthlyWage(Labourer{ID: labourID}, september(20, 30, 0), 2026, 9, today)
	require.NoError(t, err)

	assert.Equal(t, 10, s.AbsentDays)
	assert.Equal(t, 8, s.PenaltyDays)
	assert.Equal(t, 200.0, s.TotalPenalty)
	assert.Equal(t, 230.0, s.TotalDeductions)
	assert.True(t, s.HasPenalty)
}

func TestComputeMonthlyWage_Payable(t *testing.T) {
	today := day(2026, 9, 30)
	labour := Labourer{ID: labourID, AdvancePayment: 100}

	s, err := ComputeMonthlyWage(labour, september(20, 30, 50), 2026, 9, today)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, s.TotalWorkAmount)
	assert.Equal(t, 200.0, s.TotalPenalty)
	assert.Equal(t, 30.0, s.InsuranceAmount)
	assert.Equal(t, 670.0, s.PayableAmount)
	assert.False(t, s.NegativePayable)
}

func TestComputeMonthlyWage_NegativePayableIsReported(t *testing.T) {
	today := day(2026, 10, 19)
	labour := Labourer{ID: labourID, AdvancePayment: 2000}

	entries := september(30, 30, 0)
	entries[0].Amount = 500

	s, err := ComputeMonthlyWage(labour, entries, 2026, 9, today)
	require.NoError(t, err)

	assert.Equal(t, 30, s.CountableDays)
	assert.Equal(t, 500.0, s.TotalWorkAmount)
	assert.Equal(t, 0.0, s.TotalPenalty)
	assert.Equal(t, -1530.0, s.PayableAmount)
	assert.True(t, s.NegativePayable)
}

func TestComputeMonthlyWage_FutureMonth(t *testing.T) {
	today := day(2026, 10, 19)
	labour := Labourer{ID: labourID, AdvancePayment: 100}

	t.Run("no entries", func(t *testing.T) {
		s, err := ComputeMonthlyWage(labour, nil, 2026, 11, today)
		require.NoError(t, err)

		assert.Equal(t, 0, s.CountableDays)
		assert.Equal(t, 0.0, s.PresentPercentage)
		assert.Equal(t, 0.0, s.AbsentPercentage)
		assert.Equal(t, 0.0, s.TotalWorkAmount)
		assert.Equal(t, -s.TotalPenalty-s.InsuranceAmount-labour.AdvancePayment, s.PayableAmount)
		assert.True(t, s.IsFutureMonth)
	})

	t.Run("stray entries are still summed", func(t *testing.T) {
		entries := []Entry{entry(day(2026, 11, 3), Present, 100)}

		s, err := ComputeMonthlyWage(labour, entries, 2026, 11, today)
		require.NoError(t, err)

		assert.Equal(t, 0, s.PresentDays)
		assert.Equal(t, 0, s.AbsentDays)
		assert.Equal(t, 1, s.DaysOutsideWindow)
		assert.Equal(t, 100.0, s.TotalWorkAmount)
		assert.Equal(t, -30.0, s.PayableAmount)
	})
}

func TestComputeMonthlyWage_EntriesAfterTodayDoNotGoNegative(t *testing.T) {
	today := day(2026, 10, 5)
	var entries []Entry
	for d := 1; d <= 12; d++ {
		entries = append(entries, entry(day(2026, 10, d), Present, 10))
	}

	s, err := ComputeMonthlyWage(Labourer{ID: labourID}, entries, 2026, 10, today)
	require.NoError(t, err)

	assert.Equal(t, 5, s.CountableDays)
	assert.Equal(t, 5, s.PresentDays)
	assert.Equal(t, 0, s.DaysWithoutEntries)
	assert.Equal(t, 0, s.AbsentDays)
	assert.Equal(t, 12, s.DaysWithEntries)
	assert.Equal(t, 7, s.DaysOutsideWindow)
	assert.Equal(t, 120.0, s.TotalWorkAmount)
}

func TestComputeMonthlyWage_EmptyDataset(t *testing.T) {
	s, err := ComputeMonthlyWage(Labourer{ID: labourID}, nil, 2026, 2, day(2026, 10, 19))
	require.NoError(t, err)

	assert.Equal(t, 28, s.DaysInMonth)
	assert.Equal(t, 28, s.AbsentDays)
	assert.Equal(t, 28, s.DaysWithoutEntries)
	assert.Equal(t, 0, s.TotalEntries)
	assert.Equal(t, 100.0, s.AbsentPercentage)
	assert.Equal(t, 26, s.PenaltyDays)
}

func TestComputeMonthlyWage_PresenceDominates(t *testing.T) {
	today := day(2026, 9, 30)
	sameDay := []Entry{
		entry(day(2026, 9, 4), Absent, 0),
		entry(day(2026, 9, 4), "PRESENT", 40),
		entry(day(2026, 9, 4), "Absent", 0),
	}

	orders := [][]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	for _, order := range orders {
		entries := []Entry{sameDay[order[0]], sameDay[order[1]], sameDay[order[2]]}

		s, err := ComputeMonthlyWage(Labourer{ID: labourID}, entries, 2026, 9, today)
		require.NoError(t, err)
		assert.Equal(t, 1, s.PresentDays, "order %v", order)
		assert.Equal(t, 0, s.ExplicitlyAbsent, "order %v", order)
		assert.Equal(t, 1, s.DaysWithEntries, "order %v", order)
		assert.Equal(t, 3, s.TotalEntries, "order %v", order)
	}
}

func TestComputeMonthlyWage_DaysAddUp(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	todays := []time.Time{day(2026, 9, 1), day(2026, 9, 17), day(2026, 9, 30), day(2026, 10, 19), day(2027, 1, 1)}

	for i := 0; i < 200; i++ {
		var entries []Entry
		for n := rnd.Intn(40); n > 0; n-- {
			status := Present
			if rnd.Intn(2) == 0 {
				status = Absent
			}
			entries = append(entries, entry(day(2026, 9, 1+rnd.Intn(30)), status, float64(rnd.Intn(100))))
		}
		today := todays[rnd.Intn(len(todays))]

		s, err := ComputeMonthlyWage(Labourer{ID: labourID}, entries, 2026, 9, today)
		require.NoError(t, err)

		assert.Equal(t, s.CountableDays, s.PresentDays+s.AbsentDays)
		assert.GreaterOrEqual(t, s.DaysWithoutEntries, 0)

		again, err := ComputeMonthlyWage(Labourer{ID: labourID}, entries, 2026, 9, today)
		require.NoError(t, err)
		assert.Equal(t, s, again)
	}
}

func TestPolicy_PenaltyIsMonotonic(t *testing.T) {
	p := DefaultPolicy()

	prev := p.Penalty(0)
	assert.Equal(t, 0, prev.PenaltyDays)
	for absent := 1; absent <= 31; absent++ {
		cur := p.Penalty(absent)
		assert.GreaterOrEqual(t, cur.PenaltyDays, prev.PenaltyDays)
		assert.Equal(t, float64(cur.PenaltyDays)*p.PenaltyPerDay, cur.TotalPenalty)
		prev = cur
	}
}

func TestCalculator_CustomPolicy(t *testing.T) {
	calc := NewCalculator(Policy{PenaltyPerDay: 40, AllowedAbsentDays: 0, InsuranceAmount: 0})

	s, err := calc.ComputeMonthlyWage(Labourer{ID: labourID}, september(29, 29, 10), 2026, 9, day(2026, 10, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, s.PenaltyDays)
	assert.Equal(t, 40.0, s.TotalPenalty)
	assert.Equal(t, 290.0-40.0, s.PayableAmount)
}

func TestComputeMonthlyWage_InvalidInput(t *testing.T) {
	today := day(2026, 10, 19)

	for _, tc := range []struct{ year, month int }{{2026, 0}, {2026, 13}, {0, 5}, {10000, 1}} {
		_, err := ComputeMonthlyWage(Labourer{ID: labourID}, nil, tc.year, tc.month, today)
		assert.True(t, errors.Is(err, ErrInvalidPeriod), "%d-%d", tc.year, tc.month)
	}

	foreign := []Entry{{LabourID: labourID + 1, Timestamp: day(2026, 9, 2), Status: Present}}
	_, err := ComputeMonthlyWage(Labourer{ID: labourID}, foreign, 2026, 9, today)
	assert.True(t, errors.Is(err, ErrForeignEntry))

	stray := []Entry{entry(day(2026, 8, 31), Present, 10)}
	_, err = ComputeMonthlyWage(Labourer{ID: labourID}, stray, 2026, 9, today)
	assert.True(t, errors.Is(err, ErrEntryOutsidePeriod))
}

func TestDaysInMonth(t *testing.T) {
	cases := map[[2]int]int{
		{2024, 2}:  29,
		{2026, 2}:  28,
		{2026, 4}:  30,
		{2026, 12}: 31,
	}
	for in, want := range cases {
		got, err := DaysInMonth(in[0], in[1])
		require.NoError(t, err)
		assert.Equal(t, want, got, "%v", in)
	}
}

func TestParseStatus(t *testing.T) {
	for _, in := range []string{"present", "Present", " PRESENT "} {
		st, err := ParseStatus(in)
		require.NoError(t, err)
		assert.Equal(t, Present, st)
	}

	_, err := ParseStatus("late")
	assert.True(t, errors.Is(err, ErrUnknownStatus))
}

func TestLabourer_PendingVisaAmount(t *testing.T) {
	assert.Equal(t, 300.0, Labourer{VisaCost: 500, VisaPaid: 200}.PendingVisaAmount())
	assert.Equal(t, 0.0, Labourer{VisaCost: 500, VisaPaid: 700}.PendingVisaAmount())
}
