package entry

import (
	"context"

	"labour/backend/internal/repository/postgres/entry"
	"labour/backend/internal/repository/postgres/labour"
)

type Entry interface {
	GetTodayList(ctx context.Context) ([]entry.GetListResponse, error)
	GetDetailById(ctx context.Context, id int) (entry.GetDetailByIdResponse, error)
	Create(ctx context.Context, request entry.CreateRequest) (entry.CreateResponse, error)
	Update(ctx context.Context, request entry.UpdateRequest) (entry.UpdateResponse, error)
	Delete(ctx context.Context, id int) (int, error)
}

type Labours interface {
	GetActiveList(ctx context.Context) ([]labour.ActiveLabour, error)
}

type WageCards interface {
	Invalidate(ctx context.Context, labourIDs ...int)
}
