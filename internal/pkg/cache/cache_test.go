package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labour/backend/internal/wage"
)

func TestWageKey(t *testing.T) {
	today := time.Date(2026, 10, 19, 15, 4, 0, 0, time.UTC)

	assert.Equal(t, "wage:42:2026-09:2026-10-19", WageKey(42, 2026, 9, today))
	assert.Equal(t, "wage:7:0987-01:2026-10-19", WageKey(7, 987, 1, today))
	assert.Equal(t, "wage:42:*", labourPattern(42))
}

func TestWageCache_Disabled(t *testing.T) {
	ctx := context.Background()

	for _, c := range []*WageCache{nil, NewWageCache(nil, 0, nil)} {
		c.Set(ctx, "wage:1:2026-10:2026-10-19", wage.Summary{LabourID: 1})
		_, ok := c.Get(ctx, "wage:1:2026-10:2026-10-19")
		assert.False(t, ok)
		c.InvalidateLabour(ctx, 1)
	}
}

func newCache(t *testing.T) (*WageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewWageCache(client, time.Minute, nil), mr
}

func TestWageCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	key := WageKey(7, 2024, 2, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	want := wage.Summary{
		LabourID:      7,
		Year:          2024,
		Month:         2,
		MonthYear:     "February 2024",
		DaysInMonth:   29,
		CountableDays: 29,
		PresentDays:   20,
		AbsentDays:    9,
		Penalty: wage.Penalty{
			PenaltyDays:       7,
			TotalPenalty:      175,
			PenaltyPerDay:     25,
			AllowedAbsentDays: 2,
			InsuranceAmount:   30,
			TotalDeductions:   205,
			HasPenalty:        true,
		},
		TotalWorkAmount: 2000,
		PayableAmount:   1795,
	}
	c.Set(ctx, key, want)

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(2 * time.Minute)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestWageCache_CorruptValue(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("wage:1:2026-10:2026-10-19", "not json"))

	_, ok := c.Get(context.Background(), "wage:1:2026-10:2026-10-19")
	assert.False(t, ok)
}

func TestWageCache_InvalidateLabour(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// More keys than one SCAN page.
	for i := 0; i < 250; i++ {
		c.Set(ctx, WageKey(7, 2026, 1+i%12, start.AddDate(0, 0, i)), wage.Summary{LabourID: 7})
	}
	others := []string{
		WageKey(70, 2026, 1, start),
		WageKey(17, 2026, 1, start),
		WageKey(8, 2026, 1, start),
	}
	for _, key := range others {
		c.Set(ctx, key, wage.Summary{})
	}

	c.InvalidateLabour(ctx, 7)

	keys := mr.Keys()
	assert.ElementsMatch(t, others, keys)
	for _, key := range keys {
		assert.NotContains(t, key, fmt.Sprintf("wage:%d:", 7))
	}
}
