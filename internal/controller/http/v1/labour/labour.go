package labour

import (
	"bytes"
	"context"
	"net/http"
	"reflect"

	"github.com/pkg/errors"

	"labour/backend/foundation/web"
	"labour/backend/internal/repository/postgres/labour"
	"labour/backend/internal/service"
)

const qrSize = 256

type Controller struct {
	labour Labour
	cards  WageCards
}

func NewController(labour Labour, cards WageCards) *Controller {
	return &Controller{labour: labour, cards: cards}
}

func (lc Controller) GetList(c *web.Context) error {
	var filter labour.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if active, ok := c.GetQueryFunc(reflect.Bool, "is_active").(*bool); ok {
		filter.IsActive = active
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := lc.labour.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (lc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := lc.labour.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// GetWage is the monthly wage card of one labourer as seen by an admin.
func (lc Controller) GetWage(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	card, err := lc.cards.ForLabour(c.Ctx, id, c.Query("month"))
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   card,
		"status": true,
	}, http.StatusOK)
}

func (lc Controller) Create(c *web.Context) error {
	var request labour.CreateRequest

	if err := c.BindFunc(&request, "Name", "LabourCode", "Password"); err != nil {
		return c.RespondError(err)
	}

	response, err := lc.labour.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

func (lc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request labour.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	if err := lc.labour.UpdateColumns(c.Ctx, request); err != nil {
		return c.RespondError(err)
	}
	lc.cards.Invalidate(c.Ctx, id)

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (lc Controller) ToggleStatus(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	active, err := lc.labour.ToggleStatus(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}
	lc.cards.Invalidate(c.Ctx, id)

	return c.Respond(map[string]interface{}{
		"data":   map[string]interface{}{"is_active": active},
		"status": true,
	}, http.StatusOK)
}

func (lc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	if err := lc.labour.Delete(c.Ctx, id); err != nil {
		return c.RespondError(err)
	}
	lc.cards.Invalidate(c.Ctx, id)

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (lc Controller) AddVisaPayment(c *web.Context) error {
	return lc.payment(c, "visa_paid", lc.labour.AddVisaPayment)
}

func (lc Controller) AddAdvancePayment(c *web.Context) error {
	return lc.payment(c, "advance_payment", lc.labour.AddAdvancePayment)
}

func (lc Controller) payment(c *web.Context, key string, add func(ctx context.Context, id int, amount float64) (float64, error)) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request labour.PaymentRequest

	if err := c.BindFunc(&request, "Amount"); err != nil {
		return c.RespondError(err)
	}

	total, err := add(c.Ctx, id, *request.Amount)
	if err != nil {
		return c.RespondError(err)
	}
	lc.cards.Invalidate(c.Ctx, id)

	return c.Respond(map[string]interface{}{
		"data":   map[string]interface{}{"id": id, key: total},
		"status": true,
	}, http.StatusOK)
}

// GetQrCode serves the labourer's code as a PNG for the badge printer.
func (lc Controller) GetQrCode(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	l, err := lc.labour.GetById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	var code string
	if l.LabourCode != nil {
		code = *l.LabourCode
	}

	png, err := service.QRCode(code, qrSize)
	if err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", "inline; filename="+code+".png")
	c.Data(http.StatusOK, "image/png", png)
	return nil
}

// GetQrCodeList is a printable PDF with a badge for every active labourer.
func (lc Controller) GetQrCodeList(c *web.Context) error {
	list, err := lc.labour.GetActiveList(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	badges := make([]service.Badge, 0, len(list))
	for _, l := range list {
		var b service.Badge
		if l.LabourCode != nil {
			b.Code = *l.LabourCode
		}
		if l.Name != nil {
			b.Name = *l.Name
		}
		badges = append(badges, b)
	}

	var buf bytes.Buffer
	if err := service.WriteBadgesPDF(&buf, badges); err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", "attachment; filename=\"qr_labour.pdf\"")
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	return nil
}

// Import creates labourers from the Labour sheet of an uploaded xlsx file.
// Rows that cannot be imported are reported back by row number.
func (lc Controller) Import(c *web.Context) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "file is required"), http.StatusBadRequest))
	}

	file, err := header.Open()
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "opening upload"), http.StatusBadRequest))
	}
	defer file.Close()

	existing, err := lc.labour.ExistingCodes(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	rows, rejected, err := service.ReadLabourSheet(file, existing)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
	}

	requests := make([]labour.CreateRequest, 0, len(rows))
	for _, row := range rows {
		row := row
		requests = append(requests, labour.CreateRequest{
			Name:       &row.Name,
			LabourCode: &row.Code,
			Password:   &row.Password,
			VisaCost:   &row.VisaCost,
		})
	}

	created, err := lc.labour.CreateBatch(c.Ctx, requests)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"created":       created,
			"rejected_rows": rejected,
		},
		"status": true,
	}, http.StatusOK)
}

// GetImportTemplate serves the empty workbook Import expects.
func (lc Controller) GetImportTemplate(c *web.Context) error {
	var buf bytes.Buffer
	if err := service.WriteLabourTemplate(&buf); err != nil {
		return c.RespondError(err)
	}

	c.Header("Content-Disposition", "attachment; filename=\"labour_template.xlsx\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	return nil
}
