package employee

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

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

func (r Repository) GetByUsername(ctx context.Context, username string) (entity.Employee, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("username = ? AND deleted_at IS NULL", username).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Employee{}, web.NewRequestError(postgres.ErrNotFound, http.StatusUnauthorized)
	}
	if err != nil {
		return entity.Employee{}, web.NewRequestError(errors.Wrap(err, "selecting employee"), http.StatusInternalServerError)
	}

	return detail, nil
}

// GetById does not check claims.
func (r Repository) GetById(ctx context.Context, id int) (entity.Employee, error) {
	var detail entity.Employee

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Employee{}, web.NewRequestError(postgres.ErrNotFound, http.StatusUnauthorized)
	}
	if err != nil {
		return entity.Employee{}, web.NewRequestError(errors.Wrap(err, "selecting employee"), http.StatusInternalServerError)
	}

	return detail, nil
}

const selectEmployee = `
	SELECT
		e.id,
		e.username,
		e.site_id,
		s.name,
		s.location,
		e.is_active,
		e.created_at
	FROM employees e
	LEFT JOIN sites s ON s.id = e.site_id
`

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	if _, err := r.CheckCapability(ctx, auth.CapEmployee); err != nil {
		return nil, 0, err
	}

	var args []interface{}
	whereQuery := `WHERE e.deleted_at IS NULL`

	if filter.Search != nil {
		whereQuery += ` AND e.username ILIKE ?`
		args = append(args, "%"+strings.TrimSpace(*filter.Search)+"%")
	}
	if filter.SiteID != nil {
		whereQuery += ` AND e.site_id = ?`
		args = append(args, *filter.SiteID)
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

	query := fmt.Sprintf(`%s %s ORDER BY e.created_at DESC %s %s`, selectEmployee, whereQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting employees"), http.StatusBadRequest)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.Username,
			&detail.SiteID,
			&detail.SiteName,
			&detail.SiteLocation,
			&detail.IsActive,
			&detail.CreatedAt); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning employee list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "reading employee list"), http.StatusBadRequest)
	}

	var count int
	if err = r.QueryRowContext(ctx, `SELECT count(e.id) FROM employees e `+whereQuery, args...).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "counting employees"), http.StatusBadRequest)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	if _, err := r.CheckCapability(ctx, auth.CapEmployee); err != nil {
		return GetDetailByIdResponse{}, err
	}

	var detail GetDetailByIdResponse
	err := r.QueryRowContext(ctx, selectEmployee+` WHERE e.deleted_at IS NULL AND e.id = ?`, id).Scan(
		&detail.ID,
		&detail.Username,
		&detail.SiteID,
		&detail.SiteName,
		&detail.SiteLocation,
		&detail.IsActive,
		&detail.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting employee detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckCapability(ctx, auth.CapEmployee)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Username", "Password", "SiteID"); err != nil {
		return CreateResponse{}, err
	}

	username := strings.TrimSpace(*request.Username)
	if err := r.usernameFree(ctx, username, 0); err != nil {
		return CreateResponse{}, err
	}
	if err := r.siteExists(ctx, *request.SiteID); err != nil {
		return CreateResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashedPassword := string(hash)

	response := CreateResponse{
		Username:  &username,
		Password:  &hashedPassword,
		SiteID:    request.SiteID,
		IsActive:  true,
		CreatedAt: time.Now(),
		CreatedBy: claims.UserId,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating employee"), http.StatusBadRequest)
	}

	response.Password = nil

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckCapability(ctx, auth.CapEmployee)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("employees").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Username != nil {
		username := strings.TrimSpace(*request.Username)
		if err := r.usernameFree(ctx, username, request.ID); err != nil {
			return err
		}
		q.Set("username = ?", username)
	}
	if request.SiteID != nil {
		if err := r.siteExists(ctx, *request.SiteID); err != nil {
			return err
		}
		q.Set("site_id = ?", *request.SiteID)
	}
	if request.Password != nil && *request.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		q.Set("password = ?", string(hash))
	}

	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	res, err := q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating employee"), http.StatusBadRequest)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

// ToggleStatus flips is_active and returns the new value.
func (r Repository) ToggleStatus(ctx context.Context, id int) (bool, error) {
	claims, err := r.CheckCapability(ctx, auth.CapEmployee)
	if err != nil {
		return false, err
	}

	var active bool
	_, err = r.NewUpdate().Table("employees").
		Set("is_active = NOT is_active").
		Set("updated_at = ?", time.Now()).
		Set("updated_by = ?", claims.UserId).
		Where("deleted_at IS NULL AND id = ?", id).
		Returning("is_active").
		Exec(ctx, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return false, web.NewRequestError(errors.Wrap(err, "toggling employee"), http.StatusBadRequest)
	}

	return active, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	if _, err := r.CheckCapability(ctx, auth.CapEmployee); err != nil {
		return err
	}

	return r.DeleteRow(ctx, "employees", id)
}

func (r Repository) usernameFree(ctx context.Context, username string, exceptID int) error {
	if username == "" {
		return web.NewRequestError(errors.New("username is required"), http.StatusBadRequest)
	}

	taken, err := r.NewSelect().Table("employees").
		Where("username = ? AND deleted_at IS NULL AND id != ?", username, exceptID).
		Exists(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "username check"), http.StatusInternalServerError)
	}
	if taken {
		return web.NewRequestError(errors.New("username is used"), http.StatusBadRequest)
	}
	return nil
}

func (r Repository) siteExists(ctx context.Context, siteID int) error {
	ok, err := r.NewSelect().Table("sites").Where("id = ? AND deleted_at IS NULL", siteID).Exists(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "site check"), http.StatusInternalServerError)
	}
	if !ok {
		return web.NewRequestError(errors.New("site not found"), http.StatusBadRequest)
	}
	return nil
}
