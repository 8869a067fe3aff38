package wage

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AggregateStats sums a set of entries over a date range.
type AggregateStats struct {
	TotalHours       float64 `json:"total_hours"`
	TotalAmount      float64 `json:"total_amount"`
	PresentCount     int     `json:"present_count"`
	AbsentCount      int     `json:"absent_count"`
	TotalEntries     int     `json:"total_entries"`
	UniqueLabourers  int     `json:"unique_labourers"`
	ActiveSites      int     `json:"active_sites"`
	AvgDailyHours    float64 `json:"avg_daily_hours"`
	ProductivityRate float64 `json:"productivity_rate"`
	AttendanceRate   float64 `json:"attendance_rate"`
}

type GroupBy int

const (
	GroupNone GroupBy = iota
	GroupBySite
	GroupByLabour
	GroupByDay
)

// Group is the statistics of the entries sharing one key. ID is the site or
// labour id; Day is set when grouping by day.
type Group struct {
	ID    int            `json:"id"`
	Day   time.Time      `json:"day"`
	Stats AggregateStats `json:"stats"`
}

// AggregateStatistics sums entries dated between from and to, both inclusive days.
func AggregateStatistics(entries []Entry, from, to time.Time) AggregateStats {
	var (
		hours    = decimal.Zero
		amount   = decimal.Zero
		present  int
		absent   int
		labours  = map[int]struct{}{}
		sites    = map[int]struct{}{}
		daysSpan = PeriodDays(from, to)
	)

	for _, e := range entries {
		hours = hours.Add(decimal.NewFromFloat(e.Hours()))
		amount = amount.Add(decimal.NewFromFloat(e.Amount))
		if normalize(e.Status) == Present {
			present++
		} else {
			absent++
		}
		labours[e.LabourID] = struct{}{}
		sites[e.SiteID] = struct{}{}
	}

	stats := AggregateStats{
		TotalHours:      hours.Round(2).InexactFloat64(),
		TotalAmount:     amount.Round(2).InexactFloat64(),
		PresentCount:    present,
		AbsentCount:     absent,
		TotalEntries:    len(entries),
		UniqueLabourers: len(labours),
		ActiveSites:     len(sites),
	}

	if daysSpan > 0 {
		stats.AvgDailyHours = hours.Div(decimal.NewFromInt(int64(daysSpan))).Round(2).InexactFloat64()
	}
	if len(entries) > 0 {
		rate := decimal.NewFromInt(int64(present)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(len(entries)))).
			Round(2).
			InexactFloat64()
		stats.ProductivityRate = rate
		stats.AttendanceRate = rate
	}

	return stats
}

// AggregateBy splits entries by site, labour or day and aggregates each part.
// Site and labour groups are ordered by total hours, highest first; day groups
// cover every day of the range in order, including days without entries.
func AggregateBy(entries []Entry, from, to time.Time, by GroupBy) []Group {
	switch by {
	case GroupBySite:
		return groupByID(entries, from, to, func(e Entry) int { return e.SiteID })
	case GroupByLabour:
		return groupByID(entries, from, to, func(e Entry) int { return e.LabourID })
	case GroupByDay:
		return DailySeries(entries, from, to)
	}
	return []Group{{Stats: AggregateStatistics(entries, from, to)}}
}

// TopPerformers returns the labourers with the most hours, at most limit of them.
func TopPerformers(entries []Entry, from, to time.Time, limit int) []Group {
	groups := AggregateBy(entries, from, to, GroupByLabour)
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// DailySeries aggregates each day of from..to on its own.
func DailySeries(entries []Entry, from, to time.Time) []Group {
	days := PeriodDays(from, to)
	if days <= 0 {
		return nil
	}

	start := truncateDay(from)
	byDay := make(map[string][]Entry, days)
	for _, e := range entries {
		key := e.Timestamp.Format("2006-01-02")
		byDay[key] = append(byDay[key], e)
	}

	series := make([]Group, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		series = append(series, Group{
			Day:   day,
			Stats: AggregateStatistics(byDay[day.Format("2006-01-02")], day, day),
		})
	}
	return series
}

func groupByID(entries []Entry, from, to time.Time, key func(Entry) int) []Group {
	parts := map[int][]Entry{}
	for _, e := range entries {
		k := key(e)
		parts[k] = append(parts[k], e)
	}

	groups := make([]Group, 0, len(parts))
	for id, part := range parts {
		groups = append(groups, Group{ID: id, Stats: AggregateStatistics(part, from, to)})
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Stats.TotalHours != groups[j].Stats.TotalHours {
			return groups[i].Stats.TotalHours > groups[j].Stats.TotalHours
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}

const secondsPerDay = 24 * 60 * 60

// PeriodDays is the number of calendar days from..to, both inclusive.
func PeriodDays(from, to time.Time) int {
	a, b := truncateDay(from), truncateDay(to)
	if b.Before(a) {
		return 0
	}
	return int((b.Unix()-a.Unix())/secondsPerDay) + 1
}

// PreviousPeriod is the range of the same length that ends the day before from.
func PreviousPeriod(from, to time.Time) (time.Time, time.Time) {
	days := PeriodDays(from, to)
	if days < 1 {
		days = 1
	}
	prevTo := truncateDay(from).AddDate(0, 0, -1)
	prevFrom := prevTo.AddDate(0, 0, -(days - 1))
	return prevFrom, prevTo
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
