package entity

import (
	"time"

	"github.com/uptrace/bun"

	"labour/backend/internal/wage"
)

type LabourEntry struct {
	bun.BaseModel `bun:"table:labour_entries"`

	BasicEntity
	LabourID   *int       `json:"labour_id"   bun:"labour_id"`
	EmployeeID *int       `json:"employee_id" bun:"employee_id"`
	SiteID     *int       `json:"site_id"     bun:"site_id"`
	Timestamp  *time.Time `json:"timestamp"   bun:"timestamp"`
	Activity   *string    `json:"activity"    bun:"activity"`
	Status     *string    `json:"status"      bun:"status"`
	Unit       *string    `json:"unit"        bun:"unit"`
	RateType   *string    `json:"rate_type"   bun:"rate_type"`
	Rate       *float64   `json:"rate"        bun:"rate"`
	TotalHours *float64   `json:"total_hours" bun:"total_hours"`
	Qty        *float64   `json:"qty"         bun:"qty"`
	Amount     *float64   `json:"amount"      bun:"amount"`
}

func (e LabourEntry) Entry() wage.Entry {
	w := wage.Entry{
		ID:         e.ID,
		TotalHours: e.TotalHours,
		Quantity:   e.Qty,
	}
	if e.LabourID != nil {
		w.LabourID = *e.LabourID
	}
	if e.EmployeeID != nil {
		w.EmployeeID = *e.EmployeeID
	}
	if e.SiteID != nil {
		w.SiteID = *e.SiteID
	}
	if e.Timestamp != nil {
		w.Timestamp = *e.Timestamp
	}
	if e.Status != nil {
		w.Status = wage.Status(*e.Status)
	}
	if e.Activity != nil {
		w.Activity = *e.Activity
	}
	if e.Unit != nil {
		w.Unit = *e.Unit
	}
	if e.RateType != nil {
		w.RateType = *e.RateType
	}
	if e.Rate != nil {
		w.Rate = *e.Rate
	}
	if e.Amount != nil {
		w.Amount = *e.Amount
	}
	return w
}
