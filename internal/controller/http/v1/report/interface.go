package report

import (
	"context"

	"labour/backend/internal/service/reporting"
)

type Reports interface {
	ParsePeriod(from, to string, siteID *int) reporting.Period
	Build(ctx context.Context, p reporting.Period) (reporting.Report, error)
	ChartData(ctx context.Context, p reporting.Period) ([]reporting.ChartPoint, error)
}
