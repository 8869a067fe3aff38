package entry

import (
	"net/http"
	"reflect"

	"labour/backend/foundation/web"
	"labour/backend/internal/repository/postgres/entry"
)

type Controller struct {
	entry   Entry
	labours Labours
	cards   WageCards
}

func NewController(entry Entry, labours Labours, cards WageCards) *Controller {
	return &Controller{entry: entry, labours: labours, cards: cards}
}

// GetTodayList is what the employee's site recorded today.
func (ec Controller) GetTodayList(c *web.Context) error {
	list, err := ec.entry.GetTodayList(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   len(list),
		},
		"status": true,
	}, http.StatusOK)
}

// GetOptions lists what the entry form offers: active labour, activities
// and rate types.
func (ec Controller) GetOptions(c *web.Context) error {
	labours, err := ec.labours.GetActiveList(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"labours":    labours,
			"activities": entry.Activities,
			"rate_types": []string{entry.RateUnit, entry.RateHour},
		},
		"status": true,
	}, http.StatusOK)
}

func (ec Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := ec.entry.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (ec Controller) Create(c *web.Context) error {
	var request entry.CreateRequest

	if err := c.BindFunc(&request, "LabourCode", "Activity", "Status"); err != nil {
		return c.RespondError(err)
	}

	response, err := ec.entry.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}
	ec.cards.Invalidate(c.Ctx, response.LabourID)

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusCreated)
}

func (ec Controller) Update(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request entry.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	response, err := ec.entry.Update(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}
	ec.cards.Invalidate(c.Ctx, response.PrevLabourID, response.LabourID)

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (ec Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	labourID, err := ec.entry.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}
	ec.cards.Invalidate(c.Ctx, labourID)

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}
