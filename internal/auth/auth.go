package auth

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Principal kinds. Each maps to a separate table.
const (
	TypeAdmin    = "ADMIN"
	TypeEmployee = "EMPLOYEE"
	TypeLabour   = "LABOUR"
)

// Capabilities granted to admins.
const (
	CapSite     = "site_m"
	CapEmployee = "employee_m"
	CapLabour   = "labour_m"
	CapAdmin    = "admin_m"
)

// AllCapabilities is what a super admin holds.
var AllCapabilities = []string{CapSite, CapEmployee, CapLabour, CapAdmin}

type ctxKey int

// Key is how the resolved Claims are stored in a request context.
const Key ctxKey = 1

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the principal resolved from a token, together with what it may do.
type Claims struct {
	jwt.StandardClaims
	UserId       int      `json:"user_id"`
	Type         string   `json:"type"`
	SiteID       int      `json:"site_id,omitempty"`
	SuperAdmin   bool     `json:"super_admin,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
	Refresh      bool     `json:"refresh,omitempty"`
}

// Authorized reports whether the principal is one of types. No types means any.
func (c Claims) Authorized(types ...string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if c.Type == t {
			return true
		}
	}
	return false
}

// Can reports whether the principal holds capability.
func (c Claims) Can(capability string) bool {
	if c.Type != TypeAdmin {
		return false
	}
	if c.SuperAdmin {
		return true
	}
	for _, have := range c.Capabilities {
		if have == capability {
			return true
		}
	}
	return false
}

// FromContext returns the claims stored by the authenticate middleware.
func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(Key).(Claims)
	return claims, ok
}

// Auth issues and validates HMAC signed tokens.
type Auth struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func New(key string, accessTTL, refreshTTL time.Duration) (*Auth, error) {
	if len(key) < 16 {
		return nil, errors.New("jwt key must be at least 16 bytes")
	}
	if accessTTL <= 0 {
		accessTTL = 12 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}

	return &Auth{
		key:        []byte(key),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// GenToken returns an access and a refresh token for claims.
func (a *Auth) GenToken(claims Claims) (string, string, error) {
	now := a.now()

	access := claims
	access.Refresh = false
	access.StandardClaims = jwt.StandardClaims{
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(a.accessTTL).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(a.key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refresh := Claims{
		UserId:  claims.UserId,
		Type:    claims.Type,
		Refresh: true,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(a.refreshTTL).Unix(),
		},
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(a.key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return accessToken, refreshToken, nil
}

// ValidateToken parses an access token.
func (a *Auth) ValidateToken(token string) (Claims, error) {
	claims, err := a.parse(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.Refresh {
		return Claims{}, errors.Wrap(ErrInvalidToken, "refresh token used as access token")
	}
	return claims, nil
}

// ValidateRefreshToken parses a refresh token.
func (a *Auth) ValidateRefreshToken(token string) (Claims, error) {
	claims, err := a.parse(token)
	if err != nil {
		return Claims{}, err
	}
	if !claims.Refresh {
		return Claims{}, errors.Wrap(ErrInvalidToken, "access token used as refresh token")
	}
	return claims, nil
}

func (a *Auth) parse(token string) (Claims, error) {
	var claims Claims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) && vErr.Errors&jwt.ValidationErrorExpired != 0 {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
