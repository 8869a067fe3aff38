package report

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/pkg/repository/postgresql"
)

// Repository resolves the names shown next to aggregated report rows.
type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// Authorize lets any admin read reports.
func (r Repository) Authorize(ctx context.Context) error {
	_, err := r.CheckClaims(ctx, auth.TypeAdmin)
	return err
}

// Sites returns every site, deleted ones included, so old entries keep their names.
func (r Repository) Sites(ctx context.Context) (map[int]SiteInfo, error) {
	rows, err := r.QueryContext(ctx, `SELECT id, name, location FROM sites ORDER BY name`)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting sites"), http.StatusInternalServerError)
	}
	defer rows.Close()

	sites := map[int]SiteInfo{}
	for rows.Next() {
		var s SiteInfo
		if err = rows.Scan(&s.ID, &s.Name, &s.Location); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning sites"), http.StatusInternalServerError)
		}
		sites[s.ID] = s
	}
	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading sites"), http.StatusInternalServerError)
	}

	return sites, nil
}

func (r Repository) Labourers(ctx context.Context, ids []int) (map[int]LabourInfo, error) {
	labourers := map[int]LabourInfo{}
	if len(ids) == 0 {
		return labourers, nil
	}

	rows, err := r.QueryContext(ctx, `SELECT id, name, labour_code FROM labour WHERE id IN (?)`, bun.In(ids))
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting labour"), http.StatusInternalServerError)
	}
	defer rows.Close()

	for rows.Next() {
		var l LabourInfo
		if err = rows.Scan(&l.ID, &l.Name, &l.Code); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning labour"), http.StatusInternalServerError)
		}
		labourers[l.ID] = l
	}
	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading labour"), http.StatusInternalServerError)
	}

	return labourers, nil
}
