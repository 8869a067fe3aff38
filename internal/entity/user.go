package entity

import (
	"github.com/uptrace/bun"

	"labour/backend/internal/auth"
)

// User is an administrator of the back office.
type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Username          *string `json:"username"            bun:"username"`
	Email             *string `json:"email"               bun:"email"`
	Password          *string `json:"-"                   bun:"password"`
	IsSuperAdmin      bool    `json:"is_super_admin"      bun:"is_super_admin"`
	CanAccessSite     bool    `json:"can_access_site"     bun:"can_access_site"`
	CanAccessEmployee bool    `json:"can_access_employee" bun:"can_access_employee"`
	CanAccessLabour   bool    `json:"can_access_labour"   bun:"can_access_labour"`
	CanAccessAdmin    bool    `json:"can_access_admin"    bun:"can_access_admin"`
}

func (u User) Capabilities() []string {
	if u.IsSuperAdmin {
		return auth.AllCapabilities
	}

	var caps []string
	if u.CanAccessSite {
		caps = append(caps, auth.CapSite)
	}
	if u.CanAccessEmployee {
		caps = append(caps, auth.CapEmployee)
	}
	if u.CanAccessLabour {
		caps = append(caps, auth.CapLabour)
	}
	if u.CanAccessAdmin {
		caps = append(caps, auth.CapAdmin)
	}
	return caps
}

// SetCapabilities replaces the permission flags with caps.
func (u *User) SetCapabilities(caps []string) {
	has := func(c string) bool {
		for _, v := range caps {
			if v == c {
				return true
			}
		}
		return false
	}

	u.CanAccessSite = has(auth.CapSite)
	u.CanAccessEmployee = has(auth.CapEmployee)
	u.CanAccessLabour = has(auth.CapLabour)
	u.CanAccessAdmin = has(auth.CapAdmin)
}
