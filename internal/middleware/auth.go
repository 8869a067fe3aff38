package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
)

// Authenticate resolves the bearer token into claims and, when types are
// given, only lets those principal types through.
func Authenticate(a *auth.Auth, types ...string) web.Middleware {
	m := func(handler web.Handler) web.Handler {

		h := func(c *web.Context) error {

			// Expecting: Bearer <token>
			authStr := c.Request.Header.Get("authorization")

			parts := strings.Split(authStr, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				err := errors.New("expected authorization header format: Bearer <token>")
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			claims, err := a.ValidateToken(parts[1])
			if err != nil {
				return c.RespondError(web.NewRequestError(err, http.StatusUnauthorized))
			}

			if !claims.Authorized(types...) {
				return c.RespondError(web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden))
			}

			c.Ctx = context.WithValue(c.Ctx, auth.Key, claims)

			return handler(c)
		}

		return h
	}

	return m
}

// RequireCapability must run after Authenticate. It rejects admins without
// capability and every non admin principal.
func RequireCapability(capability string) web.Middleware {
	m := func(handler web.Handler) web.Handler {

		h := func(c *web.Context) error {
			claims, ok := auth.FromContext(c.Ctx)
			if !ok {
				return c.RespondError(web.NewRequestError(errors.New("authentication required"), http.StatusUnauthorized))
			}

			if !claims.Can(capability) {
				return c.RespondError(web.NewRequestError(errors.Errorf("permission %s required", capability), http.StatusForbidden))
			}

			return handler(c)
		}

		return h
	}

	return m
}
