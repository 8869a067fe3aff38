package site

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/entity"
	"labour/backend/internal/pkg/repository/postgresql"
	"labour/backend/internal/repository/postgres"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetById(ctx context.Context, id int) (entity.Site, error) {
	var detail entity.Site

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Site{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Site{}, web.NewRequestError(errors.Wrap(err, "selecting site"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	if _, err := r.CheckCapability(ctx, auth.CapSite); err != nil {
		return nil, 0, err
	}

	var args []interface{}
	whereQuery := `WHERE s.deleted_at IS NULL`

	if filter.Search != nil {
		search := "%" + strings.TrimSpace(*filter.Search) + "%"
		whereQuery += ` AND (s.name ILIKE ? OR s.location ILIKE ?)`
		args = append(args, search, search)
	}

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}
	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}
	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			s.id,
			s.name,
			s.location,
			(SELECT count(e.id) FROM employees e WHERE e.site_id = s.id AND e.deleted_at IS NULL),
			s.created_at
		FROM sites s
		%s
		ORDER BY s.created_at DESC
		%s %s
	`, whereQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting sites"), http.StatusBadRequest)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(&detail.ID, &detail.Name, &detail.Location, &detail.EmployeeCount, &detail.CreatedAt); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning site list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "reading site list"), http.StatusBadRequest)
	}

	var count int
	if err = r.QueryRowContext(ctx, `SELECT count(s.id) FROM sites s `+whereQuery, args...).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "counting sites"), http.StatusBadRequest)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	if _, err := r.CheckCapability(ctx, auth.CapSite); err != nil {
		return GetDetailByIdResponse{}, err
	}

	var detail GetDetailByIdResponse
	err := r.QueryRowContext(ctx, `
		SELECT id, name, location, created_at, created_by
		FROM sites
		WHERE deleted_at IS NULL AND id = ?
	`, id).Scan(&detail.ID, &detail.Name, &detail.Location, &detail.CreatedAt, &detail.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting site detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckCapability(ctx, auth.CapSite)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Name", "Location"); err != nil {
		return CreateResponse{}, err
	}

	if err := r.nameFree(ctx, *request.Name, 0); err != nil {
		return CreateResponse{}, err
	}

	response := CreateResponse{
		Name:      request.Name,
		Location:  request.Location,
		CreatedAt: time.Now(),
		CreatedBy: claims.UserId,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating site"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckCapability(ctx, auth.CapSite)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("sites").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		if err := r.nameFree(ctx, *request.Name, request.ID); err != nil {
			return err
		}
		q.Set("name = ?", request.Name)
	}
	if request.Location != nil {
		q.Set("location = ?", request.Location)
	}

	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating site"), http.StatusBadRequest)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

// Delete refuses to remove a site that still has employees assigned.
func (r Repository) Delete(ctx context.Context, id int) error {
	if _, err := r.CheckCapability(ctx, auth.CapSite); err != nil {
		return err
	}

	assigned, err := r.NewSelect().Table("employees").Where("site_id = ? AND deleted_at IS NULL", id).Exists(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "employee check"), http.StatusInternalServerError)
	}
	if assigned {
		return web.NewRequestError(errors.New("cannot delete a site with employees assigned to it"), http.StatusBadRequest)
	}

	return r.DeleteRow(ctx, "sites", id)
}

func (r Repository) nameFree(ctx context.Context, name string, exceptID int) error {
	taken, err := r.NewSelect().Table("sites").
		Where("name = ? AND deleted_at IS NULL AND id != ?", strings.TrimSpace(name), exceptID).
		Exists(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "site name check"), http.StatusInternalServerError)
	}
	if taken {
		return web.NewRequestError(errors.New("a site with this name already exists"), http.StatusBadRequest)
	}
	return nil
}
