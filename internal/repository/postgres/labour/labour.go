package labour

import (
	"context"
	"database/sql"
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
	"labour/backend/internal/wage"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByCode looks a labourer up by the code printed on the badge.
func (r Repository) GetByCode(ctx context.Context, code string) (entity.Labour, error) {
	var detail entity.Labour

	err := r.NewSelect().Model(&detail).Where("labour_code = ? AND deleted_at IS NULL", strings.TrimSpace(code)).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Labour{}, web.NewRequestError(errors.Wrap(postgres.ErrNotFound, "labour id"), http.StatusNotFound)
	}
	if err != nil {
		return entity.Labour{}, web.NewRequestError(errors.Wrap(err, "selecting labour"), http.StatusInternalServerError)
	}

	return detail, nil
}

// GetById does not check claims; callers decide who may see the row.
func (r Repository) GetById(ctx context.Context, id int) (entity.Labour, error) {
	var detail entity.Labour

	err := r.NewSelect().Model(&detail).Where("id = ? AND deleted_at IS NULL", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Labour{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.Labour{}, web.NewRequestError(errors.Wrap(err, "selecting labour"), http.StatusInternalServerError)
	}

	return detail, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	if _, err := r.CheckCapability(ctx, auth.CapLabour); err != nil {
		return nil, 0, err
	}

	var list []GetListResponse
	q := r.NewSelect().Model(&list).Where("l.deleted_at IS NULL")

	if filter.Search != nil {
		search := "%" + strings.TrimSpace(*filter.Search) + "%"
		q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("l.name ILIKE ?", search).WhereOr("l.labour_code ILIKE ?", search)
		})
	}
	if filter.IsActive != nil {
		q.Where("l.is_active = ?", *filter.IsActive)
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

	count, err := q.Order("l.created_at DESC").ScanAndCount(ctx)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting labour"), http.StatusBadRequest)
	}

	for i := range list {
		list[i].PendingVisaAmount = pendingVisa(list[i].VisaCost, list[i].VisaPaid)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	if _, err := r.CheckCapability(ctx, auth.CapLabour); err != nil {
		return GetDetailByIdResponse{}, err
	}

	var detail GetDetailByIdResponse
	err := r.NewSelect().Model(&detail).Where("l.deleted_at IS NULL AND l.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting labour detail"), http.StatusBadRequest)
	}
	detail.PendingVisaAmount = pendingVisa(detail.VisaCost, detail.VisaPaid)

	return detail, nil
}

// GetActiveList is the labour an employee can record entries for.
func (r Repository) GetActiveList(ctx context.Context) ([]ActiveLabour, error) {
	if _, err := r.CheckClaims(ctx, auth.TypeEmployee, auth.TypeAdmin); err != nil {
		return nil, err
	}

	var list []ActiveLabour
	err := r.NewSelect().Model(&list).
		Where("l.deleted_at IS NULL AND l.is_active").
		Order("l.name").
		Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting active labour"), http.StatusBadRequest)
	}

	return list, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckCapability(ctx, auth.CapLabour)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "Name", "LabourCode", "Password"); err != nil {
		return CreateResponse{}, err
	}

	code := strings.TrimSpace(*request.LabourCode)
	if err := r.codeFree(ctx, code, 0); err != nil {
		return CreateResponse{}, err
	}

	var visaCost float64
	if request.VisaCost != nil {
		if *request.VisaCost < 0 {
			return CreateResponse{}, web.NewRequestError(errors.New("visa cost cannot be negative"), http.StatusBadRequest)
		}
		visaCost = *request.VisaCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashedPassword := string(hash)

	response := CreateResponse{
		Name:       request.Name,
		LabourCode: &code,
		Password:   &hashedPassword,
		IsActive:   true,
		VisaCost:   visaCost,
		CreatedAt:  time.Now(),
		CreatedBy:  claims.UserId,
	}

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating labour"), http.StatusBadRequest)
	}

	response.Password = nil

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckCapability(ctx, auth.CapLabour)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("labour").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		q.Set("name = ?", strings.TrimSpace(*request.Name))
	}
	if request.LabourCode != nil {
		code := strings.TrimSpace(*request.LabourCode)
		if err := r.codeFree(ctx, code, request.ID); err != nil {
			return err
		}
		q.Set("labour_code = ?", code)
	}
	if request.VisaCost != nil {
		if *request.VisaCost < 0 {
			return web.NewRequestError(errors.New("visa cost cannot be negative"), http.StatusBadRequest)
		}
		q.Set("visa_cost = ?", *request.VisaCost)
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
		return web.NewRequestError(errors.Wrap(err, "updating labour"), http.StatusBadRequest)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}

	return nil
}

func (r Repository) ToggleStatus(ctx context.Context, id int) (bool, error) {
	claims, err := r.CheckCapability(ctx, auth.CapLabour)
	if err != nil {
		return false, err
	}

	var active bool
	_, err = r.NewUpdate().Table("labour").
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
		return false, web.NewRequestError(errors.Wrap(err, "toggling labour"), http.StatusBadRequest)
	}

	return active, nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	if _, err := r.CheckCapability(ctx, auth.CapLabour); err != nil {
		return err
	}

	return r.DeleteRow(ctx, "labour", id)
}

// AddVisaPayment adds amount to what the labourer has repaid of the visa and
// returns the new total.
func (r Repository) AddVisaPayment(ctx context.Context, id int, amount float64) (float64, error) {
	return r.increment(ctx, id, "visa_paid", amount)
}

// AddAdvancePayment adds amount to the advance given to the labourer and
// returns the new total.
func (r Repository) AddAdvancePayment(ctx context.Context, id int, amount float64) (float64, error) {
	return r.increment(ctx, id, "advance_payment", amount)
}

// increment is a single UPDATE so concurrent payments never lose each other.
func (r Repository) increment(ctx context.Context, id int, column string, amount float64) (float64, error) {
	claims, err := r.CheckCapability(ctx, auth.CapLabour)
	if err != nil {
		return 0, err
	}

	if amount < 0 {
		return 0, web.NewRequestError(errors.New("amount cannot be negative"), http.StatusBadRequest)
	}

	var total float64
	_, err = r.NewUpdate().Table("labour").
		Set("? = COALESCE(?, 0) + ?", bun.Ident(column), bun.Ident(column), amount).
		Set("updated_at = ?", time.Now()).
		Set("updated_by = ?", claims.UserId).
		Where("deleted_at IS NULL AND id = ?", id).
		Returning("?", bun.Ident(column)).
		Exec(ctx, &total)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return 0, web.NewRequestError(errors.Wrapf(err, "updating %s", column), http.StatusBadRequest)
	}

	return total, nil
}

func (r Repository) codeFree(ctx context.Context, code string, exceptID int) error {
	if code == "" {
		return web.NewRequestError(errors.New("labour id is required"), http.StatusBadRequest)
	}

	taken, err := r.NewSelect().Table("labour").
		Where("labour_code = ? AND deleted_at IS NULL AND id != ?", code, exceptID).
		Exists(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "labour id check"), http.StatusInternalServerError)
	}
	if taken {
		return web.NewRequestError(errors.New("a labour with this id already exists"), http.StatusBadRequest)
	}
	return nil
}

func pendingVisa(cost, paid float64) float64 {
	return wage.Labourer{VisaCost: cost, VisaPaid: paid}.PendingVisaAmount()
}

// ExistingCodes returns every labour code in use.
func (r Repository) ExistingCodes(ctx context.Context) (map[string]struct{}, error) {
	if _, err := r.CheckCapability(ctx, auth.CapLabour); err != nil {
		return nil, err
	}

	var codes []string
	err := r.NewSelect().Table("labour").Column("labour_code").Where("deleted_at IS NULL").Scan(ctx, &codes)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting labour codes"), http.StatusInternalServerError)
	}

	out := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		out[c] = struct{}{}
	}
	return out, nil
}

// CreateBatch inserts all requests in one transaction; one failure rolls
// the whole batch back.
func (r Repository) CreateBatch(ctx context.Context, requests []CreateRequest) (int, error) {
	claims, err := r.CheckCapability(ctx, auth.CapLabour)
	if err != nil {
		return 0, err
	}
	if len(requests) == 0 {
		return 0, nil
	}

	now := time.Now()
	rows := make([]CreateResponse, 0, len(requests))
	for i, request := range requests {
		if err := r.ValidateStruct(&request, "Name", "LabourCode", "Password"); err != nil {
			return 0, err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return 0, web.NewRequestError(errors.Wrapf(err, "hashing password of row %d", i+1), http.StatusInternalServerError)
		}
		hashedPassword := string(hash)
		code := strings.TrimSpace(*request.LabourCode)

		row := CreateResponse{
			Name:       request.Name,
			LabourCode: &code,
			Password:   &hashedPassword,
			IsActive:   true,
			CreatedAt:  now,
			CreatedBy:  claims.UserId,
		}
		if request.VisaCost != nil {
			row.VisaCost = *request.VisaCost
		}
		rows = append(rows, row)
	}

	err = r.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "importing labour"), http.StatusBadRequest)
	}

	return len(rows), nil
}
