package user

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

type SignInRequest struct {
	Login    string `json:"username"  form:"username"`
	Password string `json:"password"  form:"password"`
	UserType string `json:"user_type" form:"user_type"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GetListResponse struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `json:"id"             bun:"id"`
	Username     *string   `json:"username"       bun:"username"`
	Email        *string   `json:"email"          bun:"email"`
	IsSuperAdmin bool      `json:"is_super_admin" bun:"is_super_admin"`
	Permissions  []string  `json:"permissions"    bun:"-"`
	CreatedAt    time.Time `json:"created_at"     bun:"created_at"`

	CanAccessSite     bool `json:"-" bun:"can_access_site"`
	CanAccessEmployee bool `json:"-" bun:"can_access_employee"`
	CanAccessLabour   bool `json:"-" bun:"can_access_labour"`
	CanAccessAdmin    bool `json:"-" bun:"can_access_admin"`
}

type GetDetailByIdResponse = GetListResponse

type CreateRequest struct {
	Email       *string  `json:"email"       form:"email"`
	Password    *string  `json:"password"    form:"password"`
	Permissions []string `json:"permissions" form:"permissions"`
}

type CreateResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID                int       `json:"id"             bun:"-"`
	Username          *string   `json:"username"       bun:"username"`
	Email             *string   `json:"email"          bun:"email"`
	Password          *string   `json:"-"              bun:"password"`
	Permissions       []string  `json:"permissions"    bun:"-"`
	IsSuperAdmin      bool      `json:"is_super_admin" bun:"is_super_admin"`
	CanAccessSite     bool      `json:"-"              bun:"can_access_site"`
	CanAccessEmployee bool      `json:"-"              bun:"can_access_employee"`
	CanAccessLabour   bool      `json:"-"              bun:"can_access_labour"`
	CanAccessAdmin    bool      `json:"-"              bun:"can_access_admin"`
	CreatedAt         time.Time `json:"-"              bun:"created_at"`
	CreatedBy         int       `json:"-"              bun:"created_by"`
}

type UpdateRequest struct {
	ID          int      `json:"id"          form:"id"`
	Email       *string  `json:"email"       form:"email"`
	Password    *string  `json:"password"    form:"password"`
	Permissions []string `json:"permissions" form:"permissions"`
}

type PermissionsResponse struct {
	UserID       int      `json:"user_id"`
	UserType     string   `json:"user_type"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	Permissions  []string `json:"permissions"`
}
