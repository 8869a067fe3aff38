package wagecard

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/entity"
	"labour/backend/internal/pkg/cache"
	"labour/backend/internal/wage"
)

const monthLayout = "2006-01"

type Labours interface {
	GetById(ctx context.Context, id int) (entity.Labour, error)
}

type Entries interface {
	MonthEntries(ctx context.Context, labourID, year, month int) ([]wage.Entry, error)
}

// Card is a labourer's monthly wage card.
type Card struct {
	Labour        LabourView   `json:"labour"`
	SelectedMonth string       `json:"selected_month"`
	Summary       wage.Summary `json:"summary"`
}

type LabourView struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	LabourCode        string  `json:"labour_id"`
	IsActive          bool    `json:"is_active"`
	VisaCost          float64 `json:"visa_cost"`
	VisaPaid          float64 `json:"visa_paid"`
	PendingVisaAmount float64 `json:"pending_visa_amount"`
	AdvancePayment    float64 `json:"advance_payment"`
}

type Service struct {
	labours Labours
	entries Entries
	calc    *wage.Calculator
	cache   *cache.WageCache
	now     func() time.Time
}

func NewService(labours Labours, entries Entries, calc *wage.Calculator, c *cache.WageCache) *Service {
	return &Service{
		labours: labours,
		entries: entries,
		calc:    calc,
		cache:   c,
		now:     time.Now,
	}
}

// ParseMonth reads YYYY-MM. Anything else falls back to the month of now.
func ParseMonth(month string, now time.Time) (int, int) {
	if t, err := time.Parse(monthLayout, month); err == nil {
		return t.Year(), int(t.Month())
	}
	return now.Year(), int(now.Month())
}

// Own is the card of the signed in labourer.
func (s *Service) Own(ctx context.Context, month string) (Card, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok || claims.Type != auth.TypeLabour {
		return Card{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	l, err := s.labours.GetById(ctx, claims.UserId)
	if err != nil {
		return Card{}, err
	}
	if !l.IsActive {
		return Card{}, web.NewRequestError(errors.New("labour account not found or inactive"), http.StatusForbidden)
	}

	return s.card(ctx, l, month)
}

// ForLabour is the card of any labourer, for admins managing labour.
func (s *Service) ForLabour(ctx context.Context, labourID int, month string) (Card, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok || !claims.Can(auth.CapLabour) {
		return Card{}, web.NewRequestError(errors.Errorf("permission %s required", auth.CapLabour), http.StatusForbidden)
	}

	l, err := s.labours.GetById(ctx, labourID)
	if err != nil {
		return Card{}, err
	}

	return s.card(ctx, l, month)
}

func (s *Service) card(ctx context.Context, l entity.Labour, month string) (Card, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	year, m := ParseMonth(month, now)

	labourer := l.Labourer()
	card := Card{
		Labour: LabourView{
			ID:                labourer.ID,
			Name:              labourer.Name,
			LabourCode:        labourer.Code,
			IsActive:          labourer.IsActive,
			VisaCost:          labourer.VisaCost,
			VisaPaid:          labourer.VisaPaid,
			PendingVisaAmount: labourer.PendingVisaAmount(),
			AdvancePayment:    labourer.AdvancePayment,
		},
		SelectedMonth: time.Date(year, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format(monthLayout),
	}

	key := cache.WageKey(labourer.ID, year, m, today)
	if summary, ok := s.cache.Get(ctx, key); ok {
		card.Summary = summary
		return card, nil
	}

	entries, err := s.entries.MonthEntries(ctx, labourer.ID, year, m)
	if err != nil {
		return Card{}, err
	}

	summary, err := s.calc.ComputeMonthlyWage(labourer, entries, year, m, today)
	if err != nil {
		return Card{}, web.NewRequestError(errors.Wrap(err, "computing wage"), http.StatusBadRequest)
	}

	s.cache.Set(ctx, key, summary)
	card.Summary = summary

	return card, nil
}

// Invalidate drops cached cards of the labourers after their entries or
// payments changed.
func (s *Service) Invalidate(ctx context.Context, labourIDs ...int) {
	seen := map[int]bool{}
	for _, id := range labourIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		s.cache.InvalidateLabour(ctx, id)
	}
}
