package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/Azure/go-autorest/autorest/date"

	"labour/backend/internal/repository/postgres/report"
	"labour/backend/internal/wage"
)

const (
	dayLayout         = "2006-01-02"
	defaultPerformers = 10
)

type Entries interface {
	RangeEntries(ctx context.Context, from, to time.Time, siteID *int) ([]wage.Entry, error)
}

type Names interface {
	Authorize(ctx context.Context) error
	Sites(ctx context.Context) (map[int]report.SiteInfo, error)
	Labourers(ctx context.Context, ids []int) (map[int]report.LabourInfo, error)
}

// Period is an inclusive range of days, optionally limited to one site.
type Period struct {
	From   time.Time
	To     time.Time
	SiteID *int
}

type PeriodInfo struct {
	From string `json:"from"`
	To   string `json:"to"`
	Days int    `json:"days"`
}

type SiteRow struct {
	report.SiteInfo
	wage.AggregateStats
}

type PerformerRow struct {
	report.LabourInfo
	wage.AggregateStats
}

type Report struct {
	Period     PeriodInfo          `json:"period"`
	SiteID     *int                `json:"site_id"`
	Stats      wage.AggregateStats `json:"stats"`
	Previous   wage.AggregateStats `json:"previous"`
	Metrics    []wage.Metric       `json:"report_data"`
	SiteWise   []SiteRow           `json:"site_wise_stats"`
	Performers []PerformerRow      `json:"labour_performance"`
	Sites      []report.SiteInfo   `json:"sites"`
}

type ChartPoint struct {
	Date       string  `json:"date"`
	Hours      float64 `json:"hours"`
	Amount     float64 `json:"amount"`
	Attendance float64 `json:"attendance"`
}

type Service struct {
	entries    Entries
	names      Names
	thresholds wage.Thresholds
	now        func() time.Time
}

func NewService(entries Entries, names Names, thresholds wage.Thresholds) *Service {
	return &Service{entries: entries, names: names, thresholds: thresholds, now: time.Now}
}

// MaxPeriodDays bounds the length of a report period.
const MaxPeriodDays = 731

// ParsePeriod reads date_from and date_to as YYYY-MM-DD. When either is
// missing or malformed, or they are reversed, the period is the current month
// up to today. A period longer than MaxPeriodDays keeps its end date and is
// shortened from the start.
func (s *Service) ParsePeriod(from, to string, siteID *int) Period {
	f, errFrom := date.ParseDate(from)
	t, errTo := date.ParseDate(to)
	if errFrom == nil && errTo == nil && !t.Time.Before(f.Time) {
		p := Period{From: f.Time, To: t.Time, SiteID: siteID}
		if wage.PeriodDays(p.From, p.To) > MaxPeriodDays {
			p.From = p.To.AddDate(0, 0, -(MaxPeriodDays - 1))
		}
		return p
	}

	now := s.now()
	return Period{
		From:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		SiteID: siteID,
	}
}

func (s *Service) Build(ctx context.Context, p Period) (Report, error) {
	if err := s.names.Authorize(ctx); err != nil {
		return Report{}, err
	}

	all, err := s.entries.RangeEntries(ctx, p.From, p.To, nil)
	if err != nil {
		return Report{}, err
	}

	prevFrom, prevTo := wage.PreviousPeriod(p.From, p.To)
	previous, err := s.entries.RangeEntries(ctx, prevFrom, prevTo, p.SiteID)
	if err != nil {
		return Report{}, err
	}

	sites, err := s.names.Sites(ctx)
	if err != nil {
		return Report{}, err
	}

	current := bySite(all, p.SiteID)
	r := Report{
		Period: PeriodInfo{
			From: p.From.Format(dayLayout),
			To:   p.To.Format(dayLayout),
			Days: wage.PeriodDays(p.From, p.To),
		},
		SiteID:   p.SiteID,
		Stats:    wage.AggregateStatistics(current, p.From, p.To),
		Previous: wage.AggregateStatistics(previous, prevFrom, prevTo),
	}
	r.Metrics = wage.CompareStatistics(r.Stats, r.Previous, s.thresholds)

	// site-wise and top performers always cover every site
	for _, g := range wage.AggregateBy(all, p.From, p.To, wage.GroupBySite) {
		info, ok := sites[g.ID]
		if !ok {
			info = report.SiteInfo{ID: g.ID}
		}
		r.SiteWise = append(r.SiteWise, SiteRow{SiteInfo: info, AggregateStats: g.Stats})
	}

	top := wage.TopPerformers(all, p.From, p.To, defaultPerformers)
	ids := make([]int, 0, len(top))
	for _, g := range top {
		ids = append(ids, g.ID)
	}
	labourers, err := s.names.Labourers(ctx, ids)
	if err != nil {
		return Report{}, err
	}
	for _, g := range top {
		info, ok := labourers[g.ID]
		if !ok {
			info = report.LabourInfo{ID: g.ID}
		}
		r.Performers = append(r.Performers, PerformerRow{LabourInfo: info, AggregateStats: g.Stats})
	}

	for _, site := range sites {
		r.Sites = append(r.Sites, site)
	}
	sort.Slice(r.Sites, func(i, j int) bool { return r.Sites[i].Name < r.Sites[j].Name })

	return r, nil
}

// ChartData is one point per day of the period.
func (s *Service) ChartData(ctx context.Context, p Period) ([]ChartPoint, error) {
	if err := s.names.Authorize(ctx); err != nil {
		return nil, err
	}

	entries, err := s.entries.RangeEntries(ctx, p.From, p.To, p.SiteID)
	if err != nil {
		return nil, err
	}

	series := wage.DailySeries(entries, p.From, p.To)
	points := make([]ChartPoint, 0, len(series))
	for _, g := range series {
		points = append(points, ChartPoint{
			Date:       g.Day.Format(dayLayout),
			Hours:      g.Stats.TotalHours,
			Amount:     g.Stats.TotalAmount,
			Attendance: g.Stats.AttendanceRate,
		})
	}

	return points, nil
}

func bySite(entries []wage.Entry, siteID *int) []wage.Entry {
	if siteID == nil {
		return entries
	}

	out := make([]wage.Entry, 0, len(entries))
	for _, e := range entries {
		if e.SiteID == *siteID {
			out = append(out, e)
		}
	}
	return out
}
