package middleware

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
)

func setup(t *testing.T) (*web.App, *auth.Auth) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	a, err := auth.New("0123456789abcdef0123456789abcdef", time.Hour, time.Hour)
	require.NoError(t, err)

	ok := func(c *web.Context) error {
		claims, _ := auth.FromContext(c.Ctx)
		return c.Respond(map[string]interface{}{"data": claims.UserId, "status": true}, http.StatusOK)
	}

	app := web.NewApp(log.New(io.Discard, "", 0))
	app.Use(CORSMiddleware([]string{"https://labour.example.com"}))
	app.Get("/any", ok, Authenticate(a))
	app.Get("/employee", ok, Authenticate(a, auth.TypeEmployee))
	app.Get("/labour-admin", ok, Authenticate(a, auth.TypeAdmin), RequireCapability(auth.CapLabour))
	return app, a
}

func token(t *testing.T, a *auth.Auth, claims auth.Claims) string {
	t.Helper()
	access, _, err := a.GenToken(claims)
	require.NoError(t, err)
	return "Bearer " + access
}

func call(app *web.App, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	app, a := setup(t)

	employee := token(t, a, auth.Claims{UserId: 7, Type: auth.TypeEmployee, SiteID: 1})
	labour := token(t, a, auth.Claims{UserId: 8, Type: auth.TypeLabour})
	_, refresh, err := a.GenToken(auth.Claims{UserId: 7, Type: auth.TypeEmployee})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, call(app, "/any", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(app, "/any", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call(app, "/any", "Bearer garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, call(app, "/any", "Bearer "+refresh).Code)

	rec := call(app, "/any", labour)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":8`)

	assert.Equal(t, http.StatusOK, call(app, "/employee", employee).Code)
	assert.Equal(t, http.StatusForbidden, call(app, "/employee", labour).Code)
}

func TestRequireCapability(t *testing.T) {
	app, a := setup(t)

	scoped := token(t, a, auth.Claims{UserId: 2, Type: auth.TypeAdmin, Capabilities: []string{auth.CapLabour}})
	other := token(t, a, auth.Claims{UserId: 3, Type: auth.TypeAdmin, Capabilities: []string{auth.CapSite}})
	super := token(t, a, auth.Claims{UserId: 1, Type: auth.TypeAdmin, SuperAdmin: true})

	assert.Equal(t, http.StatusOK, call(app, "/labour-admin", scoped).Code)
	assert.Equal(t, http.StatusOK, call(app, "/labour-admin", super).Code)
	assert.Equal(t, http.StatusForbidden, call(app, "/labour-admin", other).Code)
}

func TestCORSMiddleware(t *testing.T) {
	app, _ := setup(t)

	req := httptest.NewRequest(http.MethodOptions, "/any", nil)
	req.Header.Set("Origin", "https://labour.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://labour.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/any", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
