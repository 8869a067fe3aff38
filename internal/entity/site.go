package entity

import (
	"github.com/uptrace/bun"
)

type Site struct {
	bun.BaseModel `bun:"table:sites"`

	BasicEntity
	Name     *string `json:"name"     bun:"name"`
	Location *string `json:"location" bun:"location"`
}
