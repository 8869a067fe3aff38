package entity

import (
	"github.com/uptrace/bun"
)

// Employee records labour entries for the site it belongs to.
type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	BasicEntity
	Username *string `json:"username"  bun:"username"`
	Password *string `json:"-"         bun:"password"`
	SiteID   *int    `json:"site_id"   bun:"site_id"`
	IsActive bool    `json:"is_active" bun:"is_active"`
}
