package entity

import (
	"github.com/uptrace/bun"

	"labour/backend/internal/wage"
)

type Labour struct {
	bun.BaseModel `bun:"table:labour"`

	BasicEntity
	Name           *string `json:"name"            bun:"name"`
	LabourCode     *string `json:"labour_id"       bun:"labour_code"`
	Password       *string `json:"-"               bun:"password"`
	IsActive       bool    `json:"is_active"       bun:"is_active"`
	VisaCost       float64 `json:"visa_cost"       bun:"visa_cost"`
	VisaPaid       float64 `json:"visa_paid"       bun:"visa_paid"`
	AdvancePayment float64 `json:"advance_payment" bun:"advance_payment"`
}

// Labourer converts the row into the value the wage computation works on.
func (l Labour) Labourer() wage.Labourer {
	w := wage.Labourer{
		ID:             l.ID,
		IsActive:       l.IsActive,
		VisaCost:       l.VisaCost,
		VisaPaid:       l.VisaPaid,
		AdvancePayment: l.AdvancePayment,
	}
	if l.Name != nil {
		w.Name = *l.Name
	}
	if l.LabourCode != nil {
		w.Code = *l.LabourCode
	}
	return w
}
