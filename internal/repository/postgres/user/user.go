package user

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/entity"
	"labour/backend/internal/pkg/repository/postgresql"
	"labour/backend/internal/repository/postgres"
)

const minPasswordLength = 6

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByLogin finds an admin by username, falling back to email.
func (r Repository) GetByLogin(ctx context.Context, login string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).
		Where("deleted_at IS NULL AND (username = ? OR email = ?)", login, login).
		OrderExpr("CASE WHEN username = ? THEN 0 ELSE 1 END", login).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, web.NewRequestError(postgres.ErrNotFound, http.StatusUnauthorized)
	}
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "selecting admin"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	if _, err := r.CheckCapability(ctx, auth.CapAdmin); err != nil {
		return nil, 0, err
	}

	var list []GetListResponse
	q := r.NewSelect().Model(&list).Where("u.deleted_at IS NULL")

	if filter.Search != nil {
		search := "%" + strings.TrimSpace(*filter.Search) + "%"
		q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("u.username ILIKE ?", search).WhereOr("u.email ILIKE ?", search)
		})
	}

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}
	if filter.Limit != nil {
		q.Limit(*filter.Limit)
	}
	if filter.Offset != nil {
		q.Offset(*filter.Offset)
	}

	count, err := q.Order("u.is_super_admin DESC", "u.created_at DESC").ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting admins"), http.StatusBadRequest)
	}

	for i := range list {
		list[i].Permissions = permissions(list[i])
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	if _, err := r.CheckCapability(ctx, auth.CapAdmin); err != nil {
		return GetDetailByIdResponse{}, err
	}

	var detail GetDetailByIdResponse
	err := r.NewSelect().Model(&detail).Where("u.deleted_at IS NULL AND u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting admin detail"), http.StatusBadRequest)
	}
	detail.Permissions = permissions(detail)

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckCapability(ctx, auth.CapAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Email", "Password"); err != nil {
		return CreateResponse{}, err
	}
	if len(*request.Password) < minPasswordLength {
		return CreateResponse{}, web.NewRequestError(errors.Errorf("password must be at least %d characters long", minPasswordLength), http.StatusBadRequest)
	}

	email := strings.TrimSpace(*request.Email)
	exists, err := r.NewSelect().Table("users").Where("email = ? AND deleted_at IS NULL", email).Exists(ctx)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "email check"), http.StatusInternalServerError)
	}
	if exists {
		return CreateResponse{}, web.NewRequestError(errors.New("an admin with this email already exists"), http.StatusBadRequest)
	}

	username, err := r.freeUsername(ctx, email)
	if err != nil {
		return CreateResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashedPassword := string(hash)

	var u entity.User
	u.SetCapabilities(request.Permissions)

	response := CreateResponse{
		Username:          &username,
		Email:             &email,
		Password:          &hashedPassword,
		CanAccessSite:     u.CanAccessSite,
		CanAccessEmployee: u.CanAccessEmployee,
		CanAccessLabour:   u.CanAccessLabour,
		CanAccessAdmin:    u.CanAccessAdmin,
		Permissions:       u.Capabilities(),
		CreatedAt:         time.Now(),
		CreatedBy:         claims.UserId,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating admin"), http.StatusBadRequest)
	}

	response.Password = nil

	return response, nil
}

// freeUsername derives a username from the local part of email, appending a
// counter until it is unused.
func (r Repository) freeUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	username := base
	for i := 1; ; i++ {
		taken, err := r.NewSelect().Table("users").Where("username = ?", username).Exists(ctx)
		if err != nil {
			return "", web.NewRequestError(errors.Wrap(err, "username check"), http.StatusInternalServerError)
		}
		if !taken {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, i)
	}
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckCapability(ctx, auth.CapAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	target, err := r.GetById(ctx, request.ID)
	if err != nil {
		return err
	}
	if target.IsSuperAdmin {
		return web.NewRequestError(errors.New("cannot edit super admin user"), http.StatusForbidden)
	}

	q := r.NewUpdate().Table("users").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Email != nil {
		email := strings.TrimSpace(*request.Email)
		if email == "" {
			return web.NewRequestError(errors.New("email is required"), http.StatusBadRequest)
		}
		taken, err := r.NewSelect().Table("users").Where("email = ? AND deleted_at IS NULL AND id != ?", email, request.ID).Exists(ctx)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "email check"), http.StatusInternalServerError)
		}
		if taken {
			return web.NewRequestError(errors.New("email is already taken by another user"), http.StatusBadRequest)
		}
		q.Set("email = ?", email)
	}

	if request.Password != nil && *request.Password != "" {
		if len(*request.Password) < minPasswordLength {
			return web.NewRequestError(errors.Errorf("password must be at least %d characters long", minPasswordLength), http.StatusBadRequest)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		q.Set("password = ?", string(hash))
	}

	if request.Permissions != nil {
		var u entity.User
		u.SetCapabilities(request.Permissions)
		q.Set("can_access_site = ?", u.CanAccessSite)
		q.Set("can_access_employee = ?", u.CanAccessEmployee)
		q.Set("can_access_labour = ?", u.CanAccessLabour)
		q.Set("can_access_admin = ?", u.CanAccessAdmin)
	}

	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err = q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating admin"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	claims, err := r.CheckCapability(ctx, auth.CapAdmin)
	if err != nil {
		return err
	}

	target, err := r.GetById(ctx, id)
	if err != nil {
		return err
	}
	if target.IsSuperAdmin {
		return web.NewRequestError(errors.New("cannot delete super admin user"), http.StatusForbidden)
	}
	if target.ID == claims.UserId {
		return web.NewRequestError(errors.New("cannot delete your own account"), http.StatusForbidden)
	}

	return r.DeleteRow(ctx, "users", id)
}

// GetPermissions reads the permissions of the signed in admin from the database,
// so changes apply before the token is refreshed.
func (r Repository) GetPermissions(ctx context.Context) (PermissionsResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.TypeAdmin)
	if err != nil {
		return PermissionsResponse{}, err
	}

	u, err := r.GetById(ctx, claims.UserId)
	if err != nil {
		return PermissionsResponse{}, err
	}

	return PermissionsResponse{
		UserID:       u.ID,
		UserType:     auth.TypeAdmin,
		IsSuperAdmin: u.IsSuperAdmin,
		Permissions:  u.Capabilities(),
	}, nil
}

// GetById does not check claims.
func (r Repository) GetById(ctx context.Context, id int) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("deleted_at IS NULL AND id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.User{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.User{}, web.NewRequestError(errors.Wrap(err, "selecting admin"), http.StatusInternalServerError)
	}

	return detail, nil
}

func permissions(row GetListResponse) []string {
	u := entity.User{
		IsSuperAdmin:      row.IsSuperAdmin,
		CanAccessSite:     row.CanAccessSite,
		CanAccessEmployee: row.CanAccessEmployee,
		CanAccessLabour:   row.CanAccessLabour,
		CanAccessAdmin:    row.CanAccessAdmin,
	}
	return u.Capabilities()
}
