package employee

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
	SiteID *int
}

type GetListResponse struct {
	ID           int       `json:"id"`
	Username     *string   `json:"username"`
	SiteID       *int      `json:"site_id"`
	SiteName     *string   `json:"site_name"`
	SiteLocation *string   `json:"site_location"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type GetDetailByIdResponse = GetListResponse

type CreateRequest struct {
	Username *string `json:"username" form:"username"`
	Password *string `json:"password" form:"password"`
	SiteID   *int    `json:"site_id"  form:"site_id"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:employees"`

	ID       int     `json:"id"        bun:"-"`
	Username *string `json:"username"  bun:"username"`
	Password *string `json:"-"         bun:"password"`
	SiteID   *int    `json:"site_id"   bun:"site_id"`
	IsActive bool    `json:"is_active" bun:"is_active"`

	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID       int     `json:"id"       form:"id"`
	Username *string `json:"username" form:"username"`
	Password *string `json:"password" form:"password"`
	SiteID   *int    `json:"site_id"  form:"site_id"`
}
