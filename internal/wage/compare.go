package wage

import "github.com/shopspring/decimal"

type MetricStatus string

const (
	StatusGood      MetricStatus = "good"
	StatusWarning   MetricStatus = "warning"
	StatusAttention MetricStatus = "attention"
)

// Thresholds are the percent changes that separate the status tiers. Inverse
// thresholds apply to metrics where lower is better.
type Thresholds struct {
	Good           float64 `json:"good" yaml:"good"`
	Warning        float64 `json:"warning" yaml:"warning"`
	InverseGood    float64 `json:"inverse_good" yaml:"inverse_good"`
	InverseWarning float64 `json:"inverse_warning" yaml:"inverse_warning"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Good:           10,
		Warning:        -5,
		InverseGood:    -10,
		InverseWarning: 10,
	}
}

// Status grades a percent change.
func (t Thresholds) Status(change float64, inverse bool) MetricStatus {
	if inverse {
		switch {
		case change <= t.InverseGood:
			return StatusGood
		case change <= t.InverseWarning:
			return StatusWarning
		}
		return StatusAttention
	}

	switch {
	case change >= t.Good:
		return StatusGood
	case change >= t.Warning:
		return StatusWarning
	}
	return StatusAttention
}

// Metric compares one statistic between two periods.
type Metric struct {
	Key      string       `json:"key"`
	Metric   string       `json:"metric"`
	Current  float64      `json:"current"`
	Previous float64      `json:"previous"`
	Change   float64      `json:"change"`
	Status   MetricStatus `json:"status"`
	Inverse  bool         `json:"inverse"`
}

// PercentChange is the change from previous to current in percent, rounded
// to one decimal. From zero it is 100 for growth and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	cur, prev := decimal.NewFromFloat(current), decimal.NewFromFloat(previous)
	return cur.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

// CompareStatistics reports each headline statistic of current against previous.
func CompareStatistics(current, previous AggregateStats, t Thresholds) []Metric {
	rows := []struct {
		key, name string
		cur, prev float64
		inverse   bool
	}{
		{"total_hours", "Total Hours Worked", current.TotalHours, previous.TotalHours, false},
		{"total_amount", "Total Amount Earned", current.TotalAmount, previous.TotalAmount, false},
		{"attendance_rate", "Attendance Rate", current.AttendanceRate, previous.AttendanceRate, false},
		{"active_labourers", "Active Labourers", float64(current.UniqueLabourers), float64(previous.UniqueLabourers), false},
		{"active_sites", "Active Sites", float64(current.ActiveSites), float64(previous.ActiveSites), false},
		{"avg_daily_hours", "Average Daily Hours", current.AvgDailyHours, previous.AvgDailyHours, false},
		{"absent_count", "Absences", float64(current.AbsentCount), float64(previous.AbsentCount), true},
	}

	metrics := make([]Metric, 0, len(rows))
	for _, r := range rows {
		change := PercentChange(r.cur, r.prev)
		metrics = append(metrics, Metric{
			Key:      r.key,
			Metric:   r.name,
			Current:  r.cur,
			Previous: r.prev,
			Change:   change,
			Status:   t.Status(change, r.inverse),
			Inverse:  r.inverse,
		})
	}
	return metrics
}
