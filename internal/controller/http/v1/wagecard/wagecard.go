package wagecard

import (
	"context"
	"net/http"

	"labour/backend/foundation/web"
	"labour/backend/internal/service/wagecard"
)

type Cards interface {
	Own(ctx context.Context, month string) (wagecard.Card, error)
}

type Controller struct {
	cards Cards
}

func NewController(cards Cards) *Controller {
	return &Controller{cards}
}

// GetOwn is the signed in labourer's wage card for ?month=YYYY-MM.
func (wc Controller) GetOwn(c *web.Context) error {
	card, err := wc.cards.Own(c.Ctx, c.Query("month"))
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   card,
		"status": true,
	}, http.StatusOK)
}
