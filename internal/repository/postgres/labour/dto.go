package labour

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit    *int
	Offset   *int
	Page     *int
	Search   *string
	IsActive *bool
}

type GetListResponse struct {
	bun.BaseModel `bun:"table:labour,alias:l"`

	ID                int       `json:"id"                  bun:"id"`
	Name              *string   `json:"name"                bun:"name"`
	LabourCode        *string   `json:"labour_id"           bun:"labour_code"`
	IsActive          bool      `json:"is_active"           bun:"is_active"`
	VisaCost          float64   `json:"visa_cost"           bun:"visa_cost"`
	VisaPaid          float64   `json:"visa_paid"           bun:"visa_paid"`
	AdvancePayment    float64   `json:"advance_payment"     bun:"advance_payment"`
	PendingVisaAmount float64   `json:"pending_visa_amount" bun:"-"`
	CreatedAt         time.Time `json:"created_at"          bun:"created_at"`
	CreatedBy         *int      `json:"created_by"          bun:"created_by"`
}

type GetDetailByIdResponse = GetListResponse

// ActiveLabour is what an employee picks from when recording an entry.
type ActiveLabour struct {
	bun.BaseModel `bun:"table:labour,alias:l"`

	ID         int     `json:"id"        bun:"id"`
	Name       *string `json:"name"      bun:"name"`
	LabourCode *string `json:"labour_id" bun:"labour_code"`
}

type CreateRequest struct {
	Name       *string  `json:"name"      form:"name"`
	LabourCode *string  `json:"labour_id" form:"labour_id"`
	Password   *string  `json:"password"  form:"password"`
	VisaCost   *float64 `json:"visa_cost" form:"visa_cost"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:labour"`

	ID         int     `json:"id"        bun:"-"`
	Name       *string `json:"name"      bun:"name"`
	LabourCode *string `json:"labour_id" bun:"labour_code"`
	Password   *string `json:"-"         bun:"password"`
	IsActive   bool    `json:"is_active" bun:"is_active"`
	VisaCost   float64 `json:"visa_cost" bun:"visa_cost"`

	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type UpdateRequest struct {
	ID         int      `json:"id"        form:"id"`
	Name       *string  `json:"name"      form:"name"`
	LabourCode *string  `json:"labour_id" form:"labour_id"`
	Password   *string  `json:"password"  form:"password"`
	VisaCost   *float64 `json:"visa_cost" form:"visa_cost"`
}

type PaymentRequest struct {
	Amount *float64 `json:"amount" form:"amount"`
}
