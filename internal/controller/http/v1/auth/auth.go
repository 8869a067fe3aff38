package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/repository/postgres/user"
)

var (
	errCredentials = errors.New("invalid credentials")
	errInactive    = errors.New("your account is inactive, please contact administrator")
)

type Controller struct {
	admins    Admins
	employees Employees
	labours   Labours
	tokens    Tokens
}

func NewController(admins Admins, employees Employees, labours Labours, tokens Tokens) *Controller {
	return &Controller{admins: admins, employees: employees, labours: labours, tokens: tokens}
}

// SignIn checks the credentials against the table named by user_type. Without
// a user_type admins are tried first, then employees, then labour.
func (ac Controller) SignIn(c *web.Context) error {
	var data user.SignInRequest

	if err := c.BindFunc(&data, "Login", "Password"); err != nil {
		return c.RespondError(err)
	}

	var kinds []string
	switch strings.ToLower(strings.TrimSpace(data.UserType)) {
	case "admin":
		kinds = []string{auth.TypeAdmin}
	case "employee":
		kinds = []string{auth.TypeEmployee}
	case "labour":
		kinds = []string{auth.TypeLabour}
	case "":
		kinds = []string{auth.TypeAdmin, auth.TypeEmployee, auth.TypeLabour}
	default:
		return c.RespondError(web.NewRequestError(errors.New("user_type should be admin, employee or labour"), http.StatusBadRequest))
	}

	for _, kind := range kinds {
		claims, err := ac.check(c.Ctx, kind, strings.TrimSpace(data.Login), data.Password)
		if errors.Is(err, errCredentials) {
			continue
		}
		if err != nil {
			return c.RespondError(err)
		}

		return ac.respondTokens(c, claims)
	}

	return c.RespondError(web.NewRequestError(errCredentials, http.StatusUnauthorized))
}

func (ac Controller) RefreshToken(c *web.Context) error {
	var data user.RefreshTokenRequest

	if err := c.BindFunc(&data, "RefreshToken"); err != nil {
		return c.RespondError(err)
	}

	refresh, err := ac.tokens.ValidateRefreshToken(data.RefreshToken)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
	}

	claims, err := ac.reload(c.Ctx, refresh)
	if err != nil {
		return c.RespondError(err)
	}

	return ac.respondTokens(c, claims)
}

func (ac Controller) respondTokens(c *web.Context, claims auth.Claims) error {
	accessToken, refreshToken, err := ac.tokens.GenToken(claims)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "generating tokens"), http.StatusInternalServerError))
	}

	return c.Respond(map[string]interface{}{
		"status": true,
		"data": map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"user_type":     claims.Type,
			"user_id":       claims.UserId,
			"permissions":   claims.Capabilities,
		},
	}, http.StatusOK)
}

// check returns errCredentials when login is unknown or the password is wrong,
// so the caller can move on to the next table.
func (ac Controller) check(ctx context.Context, kind, login, password string) (auth.Claims, error) {
	var (
		hash   *string
		claims auth.Claims
		active = true
	)

	switch kind {
	case auth.TypeAdmin:
		u, err := ac.admins.GetByLogin(ctx, login)
		if err != nil {
			return auth.Claims{}, asCredentials(err)
		}
		hash = u.Password
		claims = auth.Claims{UserId: u.ID, Type: auth.TypeAdmin, SuperAdmin: u.IsSuperAdmin, Capabilities: u.Capabilities()}
	case auth.TypeEmployee:
		e, err := ac.employees.GetByUsername(ctx, login)
		if err != nil {
			return auth.Claims{}, asCredentials(err)
		}
		hash, active = e.Password, e.IsActive
		claims = auth.Claims{UserId: e.ID, Type: auth.TypeEmployee}
		if e.SiteID != nil {
			claims.SiteID = *e.SiteID
		}
	case auth.TypeLabour:
		l, err := ac.labours.GetByCode(ctx, login)
		if err != nil {
			return auth.Claims{}, asCredentials(err)
		}
		hash, active = l.Password, l.IsActive
		claims = auth.Claims{UserId: l.ID, Type: auth.TypeLabour}
	}

	if hash == nil || bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) != nil {
		return auth.Claims{}, errCredentials
	}
	if !active {
		return auth.Claims{}, web.NewRequestError(errInactive, http.StatusForbidden)
	}

	return claims, nil
}

// reload rebuilds the claims of a refresh token from the database so
// permission and site changes are picked up.
func (ac Controller) reload(ctx context.Context, refresh auth.Claims) (auth.Claims, error) {
	switch refresh.Type {
	case auth.TypeAdmin:
		u, err := ac.admins.GetById(ctx, refresh.UserId)
		if err != nil {
			return auth.Claims{}, web.NewRequestError(errors.Wrap(err, "admin"), http.StatusUnauthorized)
		}
		return auth.Claims{UserId: u.ID, Type: auth.TypeAdmin, SuperAdmin: u.IsSuperAdmin, Capabilities: u.Capabilities()}, nil
	case auth.TypeEmployee:
		e, err := ac.employees.GetById(ctx, refresh.UserId)
		if err != nil {
			return auth.Claims{}, web.NewRequestError(errors.Wrap(err, "employee"), http.StatusUnauthorized)
		}
		if !e.IsActive {
			return auth.Claims{}, web.NewRequestError(errInactive, http.StatusForbidden)
		}
		claims := auth.Claims{UserId: e.ID, Type: auth.TypeEmployee}
		if e.SiteID != nil {
			claims.SiteID = *e.SiteID
		}
		return claims, nil
	case auth.TypeLabour:
		l, err := ac.labours.GetById(ctx, refresh.UserId)
		if err != nil {
			return auth.Claims{}, web.NewRequestError(errors.Wrap(err, "labour"), http.StatusUnauthorized)
		}
		if !l.IsActive {
			return auth.Claims{}, web.NewRequestError(errInactive, http.StatusForbidden)
		}
		return auth.Claims{UserId: l.ID, Type: auth.TypeLabour}, nil
	}

	return auth.Claims{}, web.NewRequestError(auth.ErrInvalidToken, http.StatusUnauthorized)
}

// asCredentials turns "not found" into errCredentials and keeps real failures.
func asCredentials(err error) error {
	if status := web.StatusOf(err); status == http.StatusUnauthorized || status == http.StatusNotFound {
		return errCredentials
	}
	return err
}
