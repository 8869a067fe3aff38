package labour

import (
	"context"

	"labour/backend/internal/entity"
	"labour/backend/internal/repository/postgres/labour"
	"labour/backend/internal/service/wagecard"
)

type Labour interface {
	GetById(ctx context.Context, id int) (entity.Labour, error)
	GetList(ctx context.Context, filter labour.Filter) ([]labour.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (labour.GetDetailByIdResponse, error)
	GetActiveList(ctx context.Context) ([]labour.ActiveLabour, error)

	Create(ctx context.Context, request labour.CreateRequest) (labour.CreateResponse, error)
	UpdateColumns(ctx context.Context, request labour.UpdateRequest) error
	ToggleStatus(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
	AddVisaPayment(ctx context.Context, id int, amount float64) (float64, error)
	AddAdvancePayment(ctx context.Context, id int, amount float64) (float64, error)
	ExistingCodes(ctx context.Context) (map[string]struct{}, error)
	CreateBatch(ctx context.Context, requests []labour.CreateRequest) (int, error)
}

type WageCards interface {
	ForLabour(ctx context.Context, labourID int, month string) (wagecard.Card, error)
	Invalidate(ctx context.Context, labourIDs ...int)
}
