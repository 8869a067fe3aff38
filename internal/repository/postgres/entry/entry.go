package entry

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/entity"
	"labour/backend/internal/pkg/repository/postgresql"
	"labour/backend/internal/repository/postgres"
	"labour/backend/internal/wage"
)

var ErrForeignSite = errors.New("you can only change entries from your site")

type Repository struct {
	*postgresql.Database
	now func() time.Time
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database, now: time.Now}
}

const selectEntry = `
	SELECT
		le.id,
		le.labour_id,
		l.labour_code,
		l.name,
		le.employee_id,
		le.site_id,
		le.timestamp,
		le.activity,
		le.status,
		le.unit,
		le.rate_type,
		le.rate,
		le.total_hours,
		le.qty,
		le.amount
	FROM labour_entries le
	LEFT JOIN labour l ON l.id = le.labour_id
`

func scanEntry(row interface{ Scan(...interface{}) error }, detail *GetListResponse) error {
	return row.Scan(
		&detail.ID,
		&detail.LabourID,
		&detail.LabourCode,
		&detail.LabourName,
		&detail.EmployeeID,
		&detail.SiteID,
		&detail.Timestamp,
		&detail.Activity,
		&detail.Status,
		&detail.Unit,
		&detail.RateType,
		&detail.Rate,
		&detail.TotalHours,
		&detail.Qty,
		&detail.Amount,
	)
}

// employeeSite returns the site of the signed in employee. It is read from the
// database so reassignments apply to live tokens.
func (r Repository) employeeSite(ctx context.Context) (auth.Claims, int, error) {
	claims, err := r.CheckClaims(ctx, auth.TypeEmployee)
	if err != nil {
		return auth.Claims{}, 0, err
	}

	var siteID int
	err = r.NewSelect().Table("employees").Column("site_id").
		Where("id = ? AND is_active AND deleted_at IS NULL", claims.UserId).
		Scan(ctx, &siteID)
	if errors.Is(err, sql.ErrNoRows) {
		return auth.Claims{}, 0, web.NewRequestError(errors.New("employee account not found or inactive"), http.StatusForbidden)
	}
	if err != nil {
		return auth.Claims{}, 0, web.NewRequestError(errors.Wrap(err, "selecting employee site"), http.StatusInternalServerError)
	}

	return claims, siteID, nil
}

// GetTodayList returns the entries recorded today at the employee's site, newest first.
func (r Repository) GetTodayList(ctx context.Context) ([]GetListResponse, error) {
	_, siteID, err := r.employeeSite(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	rows, err := r.QueryContext(ctx, selectEntry+`
		WHERE le.deleted_at IS NULL AND le.site_id = ? AND le.timestamp >= ? AND le.timestamp < ?
		ORDER BY le.timestamp DESC
	`, siteID, from, to)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting today's entries"), http.StatusBadRequest)
	}
	defer rows.Close()

	var list []GetListResponse
	for rows.Next() {
		var detail GetListResponse
		if err = scanEntry(rows, &detail); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning entry list"), http.StatusBadRequest)
		}
		list = append(list, detail)
	}
	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading entry list"), http.StatusBadRequest)
	}

	return list, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, siteID, err := r.employeeSite(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	var detail GetDetailByIdResponse
	err = scanEntry(r.QueryRowContext(ctx, selectEntry+` WHERE le.deleted_at IS NULL AND le.id = ?`, id), &detail)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting entry detail"), http.StatusBadRequest)
	}
	if detail.SiteID != siteID {
		return GetDetailByIdResponse{}, web.NewRequestError(ErrForeignSite, http.StatusForbidden)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, siteID, err := r.employeeSite(ctx)
	if err != nil {
		return CreateResponse{}, err
	}

	fields, err := r.fields(ctx, request)
	if err != nil {
		return CreateResponse{}, err
	}

	now := r.now()
	fields.EmployeeID = claims.UserId
	fields.SiteID = siteID
	fields.Timestamp = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	fields.CreatedAt = now
	fields.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&fields).Returning("id").Exec(ctx, &fields.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating entry"), http.StatusBadRequest)
	}

	return fields, nil
}

// Update rewrites an entry of the employee's site. The response names the
// labourer before and after so both wage cards can be refreshed.
func (r Repository) Update(ctx context.Context, request UpdateRequest) (UpdateResponse, error) {
	claims, siteID, err := r.employeeSite(ctx)
	if err != nil {
		return UpdateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return UpdateResponse{}, err
	}

	current, err := r.get(ctx, request.ID)
	if err != nil {
		return UpdateResponse{}, err
	}
	if current.SiteID == nil || *current.SiteID != siteID {
		return UpdateResponse{}, web.NewRequestError(ErrForeignSite, http.StatusForbidden)
	}

	fields, err := r.fields(ctx, request.CreateRequest)
	if err != nil {
		return UpdateResponse{}, err
	}

	_, err = r.NewUpdate().Table("labour_entries").
		Set("labour_id = ?", fields.LabourID).
		Set("activity = ?", fields.Activity).
		Set("status = ?", fields.Status).
		Set("unit = ?", fields.Unit).
		Set("rate_type = ?", fields.RateType).
		Set("rate = ?", fields.Rate).
		Set("total_hours = ?", fields.TotalHours).
		Set("qty = ?", fields.Qty).
		Set("amount = ?", fields.Amount).
		Set("updated_at = ?", r.now()).
		Set("updated_by = ?", claims.UserId).
		Where("deleted_at IS NULL AND id = ?", request.ID).
		Exec(ctx)
	if err != nil {
		return UpdateResponse{}, web.NewRequestError(errors.Wrap(err, "updating entry"), http.StatusBadRequest)
	}

	return UpdateResponse{ID: request.ID, PrevLabourID: *current.LabourID, LabourID: fields.LabourID}, nil
}

// Delete removes an entry of the employee's site and returns its labourer.
func (r Repository) Delete(ctx context.Context, id int) (int, error) {
	_, siteID, err := r.employeeSite(ctx)
	if err != nil {
		return 0, err
	}

	current, err := r.get(ctx, id)
	if err != nil {
		return 0, err
	}
	if current.SiteID == nil || *current.SiteID != siteID {
		return 0, web.NewRequestError(ErrForeignSite, http.StatusForbidden)
	}

	if err = r.DeleteRow(ctx, "labour_entries", id); err != nil {
		return 0, err
	}

	return *current.LabourID, nil
}

// MonthEntries returns every entry of the labourer dated within year-month.
func (r Repository) MonthEntries(ctx context.Context, labourID, year, month int) ([]wage.Entry, error) {
	if _, err := wage.DaysInMonth(year, month); err != nil {
		return nil, web.NewRequestError(err, http.StatusBadRequest)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var rows []entity.LabourEntry
	err := r.NewSelect().Model(&rows).
		Where("deleted_at IS NULL AND labour_id = ?", labourID).
		Where("timestamp >= ? AND timestamp < ?", from, to).
		Order("timestamp").
		Scan(ctx)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting month entries"), http.StatusInternalServerError)
	}

	return toEntries(rows), nil
}

// RangeEntries returns the entries dated from..to, both days inclusive,
// optionally limited to one site.
func (r Repository) RangeEntries(ctx context.Context, from, to time.Time, siteID *int) ([]wage.Entry, error) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)

	var rows []entity.LabourEntry
	q := r.NewSelect().Model(&rows).
		Where("deleted_at IS NULL").
		Where("timestamp >= ? AND timestamp < ?", start, end)
	if siteID != nil {
		q.Where("site_id = ?", *siteID)
	}

	if err := q.Order("timestamp").Scan(ctx); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting entries"), http.StatusInternalServerError)
	}

	return toEntries(rows), nil
}

func (r Repository) get(ctx context.Context, id int) (entity.LabourEntry, error) {
	var detail entity.LabourEntry

	err := r.NewSelect().Model(&detail).Where("deleted_at IS NULL AND id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.LabourEntry{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return entity.LabourEntry{}, web.NewRequestError(errors.Wrap(err, "selecting entry"), http.StatusInternalServerError)
	}

	return detail, nil
}

// fields validates a request and resolves the labour code to its row.
func (r Repository) fields(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	if err := r.ValidateStruct(&request, "LabourCode", "Activity", "Status", "Unit", "RateType"); err != nil {
		return CreateResponse{}, err
	}

	status, err := wage.ParseStatus(*request.Status)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(err, http.StatusBadRequest)
	}

	rateType, err := parseRateType(*request.RateType)
	if err != nil {
		return CreateResponse{}, err
	}

	var labourID int
	err = r.NewSelect().Table("labour").Column("id").
		Where("labour_code = ? AND deleted_at IS NULL", strings.TrimSpace(*request.LabourCode)).
		Scan(ctx, &labourID)
	if errors.Is(err, sql.ErrNoRows) {
		return CreateResponse{}, web.NewRequestError(errors.New("labour id not found"), http.StatusBadRequest)
	}
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "selecting labour"), http.StatusInternalServerError)
	}

	fields := CreateResponse{
		LabourID:   labourID,
		Activity:   strings.TrimSpace(*request.Activity),
		Status:     string(status),
		Unit:       strings.TrimSpace(*request.Unit),
		RateType:   rateType,
		TotalHours: positive(request.TotalHours),
		Qty:        positive(request.Qty),
	}
	if request.Rate != nil {
		fields.Rate = *request.Rate
	}
	if request.Amount != nil {
		fields.Amount = *request.Amount
	}
	if fields.Rate < 0 || fields.Amount < 0 {
		return CreateResponse{}, web.NewRequestError(errors.New("rate and amount cannot be negative"), http.StatusBadRequest)
	}

	return fields, nil
}

func parseRateType(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unit":
		return RateUnit, nil
	case "hour":
		return RateHour, nil
	}
	return "", web.NewRequestError(errors.Errorf("rate_type must be %s or %s", RateUnit, RateHour), http.StatusBadRequest)
}

// positive drops zero and negative measurements, they mean "not recorded".
func positive(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	return v
}

func toEntries(rows []entity.LabourEntry) []wage.Entry {
	entries := make([]wage.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.Entry())
	}
	return entries
}
