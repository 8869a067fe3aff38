package site

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type GetListResponse struct {
	ID            int       `json:"id"`
	Name          *string   `json:"name"`
	Location      *string   `json:"location"`
	EmployeeCount int       `json:"employee_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type GetDetailByIdResponse struct {
	ID        int       `json:"id"`
	Name      *string   `json:"name"`
	Location  *string   `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy *int      `json:"created_by"`
}

type CreateRequest struct {
	Name     *string `json:"name"     form:"name"`
	Location *string `json:"location" form:"location"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:sites"`

	ID       int     `json:"id"       bun:"-"`
	Name     *string `json:"name"     bun:"name"`
	Location *string `json:"location" bun:"location"`

	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id"       form:"id"`
	Name     *string `json:"name"     form:"name"`
	Location *string `json:"location" form:"location"`
}
