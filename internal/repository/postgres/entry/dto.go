package entry

import (
	"time"

	"github.com/uptrace/bun"
)

// Activities offered to employees when recording work.
var Activities = []string{
	"Corner Bead",
	"Plaster",
	"Spot Level",
	"Conduit Filling",
	"Keycoat",
	"Mesh Fixing",
	"Mesh Filling",
	"Fiber Mesh Fixing",
}

// Rate types.
const (
	RateUnit = "Unit"
	RateHour = "Hour"
)

type GetListResponse struct {
	ID         int       `json:"id"`
	LabourID   int       `json:"labour_id"`
	LabourCode *string   `json:"labour_code"`
	LabourName *string   `json:"labour_name"`
	EmployeeID int       `json:"employee_id"`
	SiteID     int       `json:"site_id"`
	Timestamp  time.Time `json:"timestamp"`
	Activity   *string   `json:"activity"`
	Status     *string   `json:"status"`
	Unit       *string   `json:"unit"`
	RateType   *string   `json:"rate_type"`
	Rate       *float64  `json:"rate"`
	TotalHours *float64  `json:"total_hours"`
	Qty        *float64  `json:"qty"`
	Amount     *float64  `json:"amount"`
}

type GetDetailByIdResponse = GetListResponse

type CreateRequest struct {
	LabourCode *string  `json:"labour_id"   form:"labour_id"`
	Activity   *string  `json:"activity"    form:"activity"`
	Status     *string  `json:"status"      form:"status"`
	Unit       *string  `json:"unit"        form:"unit"`
	RateType   *string  `json:"rate_type"   form:"rate_type"`
	Rate       *float64 `json:"rate"        form:"rate"`
	TotalHours *float64 `json:"total_hours" form:"total_hours"`
	Qty        *float64 `json:"qty"         form:"qty"`
	Amount     *float64 `json:"amount"      form:"amount"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:labour_entries"`

	ID         int       `json:"id"          bun:"-"`
	LabourID   int       `json:"labour_id"   bun:"labour_id"`
	EmployeeID int       `json:"employee_id" bun:"employee_id"`
	SiteID     int       `json:"site_id"     bun:"site_id"`
	Timestamp  time.Time `json:"timestamp"   bun:"timestamp"`
	Activity   string    `json:"activity"    bun:"activity"`
	Status     string    `json:"status"      bun:"status"`
	Unit       string    `json:"unit"        bun:"unit"`
	RateType   string    `json:"rate_type"   bun:"rate_type"`
	Rate       float64   `json:"rate"        bun:"rate"`
	TotalHours *float64  `json:"total_hours" bun:"total_hours"`
	Qty        *float64  `json:"qty"         bun:"qty"`
	Amount     float64   `json:"amount"      bun:"amount"`

	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID int `json:"id" form:"id"`
	CreateRequest
}

// UpdateResponse names both labourers when an edit moves an entry.
type UpdateResponse struct {
	ID           int `json:"id"`
	PrevLabourID int `json:"prev_labour_id"`
	LabourID     int `json:"labour_id"`
}
