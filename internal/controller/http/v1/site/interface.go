package site

import (
	"context"

	"labour/backend/internal/repository/postgres/site"
)

type Site interface {
	GetList(ctx context.Context, filter site.Filter) ([]site.GetListResponse, int, error)
	GetDetailById(ctx context.Context, id int) (site.GetDetailByIdResponse, error)
	Create(ctx context.Context, request site.CreateRequest) (site.CreateResponse, error)
	UpdateColumns(ctx context.Context, request site.UpdateRequest) error
	Delete(ctx context.Context, id int) error
}
