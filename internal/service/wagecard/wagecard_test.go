package wagecard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/entity"
	"labour/backend/internal/wage"
)

type fakeLabours map[int]entity.Labour

func (f fakeLabours) GetById(_ context.Context, id int) (entity.Labour, error) {
	l, ok := f[id]
	if !ok {
		return entity.Labour{}, web.NewRequestError(assert.AnError, 404)
	}
	return l, nil
}

type fakeEntries struct {
	entries []wage.Entry
	calls   []string
}

func (f *fakeEntries) MonthEntries(_ context.Context, labourID, year, month int) ([]wage.Entry, error) {
	f.calls = append(f.calls, time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format(monthLayout))
	var out []wage.Entry
	for _, e := range f.entries {
		if e.LabourID == labourID && e.Timestamp.Year() == year && int(e.Timestamp.Month()) == month {
			out = append(out, e)
		}
	}
	return out, nil
}

func newService(t *testing.T, active bool) (*Service, *fakeEntries) {
	t.Helper()

	name, code := "Ravi", "L-7"
	labours := fakeLabours{7: {BasicEntity: entity.BasicEntity{ID: 7}, Name: &name, LabourCode: &code, IsActive: active, AdvancePayment: 100}}

	entries := &fakeEntries{}
	for d := 1; d <= 26; d++ {
		entries.entries = append(entries.entries, wage.Entry{
			LabourID:  7,
			Timestamp: time.Date(2026, 9, d, 8, 0, 0, 0, time.UTC),
			Status:    wage.Present,
			Amount:    100,
		})
	}

	s := NewService(labours, entries, wage.NewCalculator(wage.DefaultPolicy()), nil)
	s.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local) }
	return s, entries
}

func labourCtx(id int) context.Context {
	return context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: id, Type: auth.TypeLabour})
}

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	y, m := ParseMonth("2026-02", now)
	assert.Equal(t, [2]int{2026, 2}, [2]int{y, m})

	for _, bad := range []string{"", "2026-13", "september", "2026/09"} {
		y, m = ParseMonth(bad, now)
		assert.Equal(t, [2]int{2026, 10}, [2]int{y, m}, bad)
	}
}

func TestService_Own(t *testing.T) {
	s, entries := newService(t, true)

	card, err := s.Own(labourCtx(7), "2026-09")
	require.NoError(t, err)

	assert.Equal(t, "2026-09", card.SelectedMonth)
	assert.Equal(t, "L-7", card.Labour.LabourCode)
	assert.Equal(t, 30, card.Summary.CountableDays)
	assert.Equal(t, 26, card.Summary.PresentDays)
	assert.Equal(t, 4, card.Summary.AbsentDays)
	assert.Equal(t, 50.0, card.Summary.TotalPenalty)
	assert.Equal(t, 2600.0, card.Summary.TotalWorkAmount)
	assert.Equal(t, 2600.0-50-30-100, card.Summary.PayableAmount)
	assert.Equal(t, []string{"2026-09"}, entries.calls)
}

func TestService_OwnFallsBackToCurrentMonth(t *testing.T) {
	s, entries := newService(t, true)

	card, err := s.Own(labourCtx(7), "not-a-month")
	require.NoError(t, err)

	assert.Equal(t, "2026-10", card.SelectedMonth)
	assert.True(t, card.Summary.IsCurrentMonth)
	assert.Equal(t, 19, card.Summary.CountableDays)
	assert.Equal(t, 19, card.Summary.AbsentDays)
	assert.Equal(t, []string{"2026-10"}, entries.calls)
}

func TestService_OwnRejects(t *testing.T) {
	s, _ := newService(t, false)

	_, err := s.Own(labourCtx(7), "2026-09")
	assert.Equal(t, 403, web.StatusOf(err))

	admin := context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: 7, Type: auth.TypeAdmin, SuperAdmin: true})
	_, err = s.Own(admin, "2026-09")
	assert.Equal(t, 403, web.StatusOf(err))

	_, err = s.Own(context.Background(), "2026-09")
	assert.Equal(t, 403, web.StatusOf(err))
}

func TestService_ForLabour(t *testing.T) {
	s, _ := newService(t, false)

	scoped := context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: 1, Type: auth.TypeAdmin, Capabilities: []string{auth.CapLabour}})
	card, err := s.ForLabour(scoped, 7, "2026-09")
	require.NoError(t, err)
	assert.Equal(t, 26, card.Summary.PresentDays)

	_, err = s.ForLabour(scoped, 8, "2026-09")
	assert.Equal(t, 404, web.StatusOf(err))

	noCap := context.WithValue(context.Background(), auth.Key, auth.Claims{UserId: 1, Type: auth.TypeAdmin})
	_, err = s.ForLabour(noCap, 7, "2026-09")
	assert.Equal(t, 403, web.StatusOf(err))
}

func TestService_InvalidateWithoutCache(t *testing.T) {
	s, _ := newService(t, true)
	s.Invalidate(context.Background(), 7, 7, 0)
}
