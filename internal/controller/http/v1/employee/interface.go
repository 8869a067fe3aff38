package employee

import (
	"context"

	"labour/backend/internal/repository/postgres/employee"
)

type Employee interface {
	GetList(ctx context.Context, filter employee.Filter) ([]employee.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (employee.GetDetailByIdResponse, error)
	Create(ctx context.Context, request employee.CreateRequest) (employee.CreateResponse, error)
	UpdateColumns(ctx context.Context, request employee.UpdateRequest) error
	ToggleStatus(ctx context.Context, id int) (bool, error)
	Delete(ctx context.Context, id int) error
}
