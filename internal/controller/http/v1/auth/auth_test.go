package auth

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
	"labour/backend/internal/entity"
	"labour/backend/internal/repository/postgres"
)

func hash(t *testing.T, password string) *string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(h)
	return &s
}

func notFound() error { return web.NewRequestError(postgres.ErrNotFound, http.StatusUnauthorized) }

type fakeAdmins map[string]entity.User

func (f fakeAdmins) GetByLogin(_ context.Context, login string) (entity.User, error) {
	if u, ok := f[login]; ok {
		return u, nil
	}
	return entity.User{}, notFound()
}

func (f fakeAdmins) GetById(_ context.Context, id int) (entity.User, error) {
	for _, u := range f {
		if u.ID == id {
			return u, nil
		}
	}
	return entity.User{}, notFound()
}

type fakeEmployees map[string]entity.Employee

func (f fakeEmployees) GetByUsername(_ context.Context, username string) (entity.Employee, error) {
	if e, ok := f[username]; ok {
		return e, nil
	}
	return entity.Employee{}, notFound()
}

func (f fakeEmployees) GetById(_ context.Context, id int) (entity.Employee, error) {
	for _, e := range f {
		if e.ID == id {
			return e, nil
		}
	}
	return entity.Employee{}, notFound()
}

type fakeLabours map[string]entity.Labour

func (f fakeLabours) GetByCode(_ context.Context, code string) (entity.Labour, error) {
	if l, ok := f[code]; ok {
		return l, nil
	}
	return entity.Labour{}, notFound()
}

func (f fakeLabours) GetById(_ context.Context, id int) (entity.Labour, error) {
	for _, l := range f {
		if l.ID == id {
			return l, nil
		}
	}
	return entity.Labour{}, notFound()
}

func setup(t *testing.T) (*web.App, *auth.Auth) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	site := 4
	admins := fakeAdmins{"root": {BasicEntity: entity.BasicEntity{ID: 1}, Password: hash(t, "secret1"), IsSuperAdmin: true}}
	employees := fakeEmployees{
		"foreman":  {BasicEntity: entity.BasicEntity{ID: 2}, Password: hash(t, "secret2"), SiteID: &site, IsActive: true},
		"inactive": {BasicEntity: entity.BasicEntity{ID: 3}, Password: hash(t, "secret3"), IsActive: false},
	}
	labours := fakeLabours{"L-9": {BasicEntity: entity.BasicEntity{ID: 9}, Password: hash(t, "secret9"), IsActive: true}}

	tokens, err := auth.New("0123456789abcdef0123456789abcdef", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	ctrl := NewController(admins, employees, labours, tokens)
	app := web.NewApp(log.New(io.Discard, "", 0))
	app.Post("/api/v1/sign-in", ctrl.SignIn)
	app.Post("/api/v1/refresh-token", ctrl.RefreshToken)

	return app, tokens
}

type tokenBody struct {
	Status bool `json:"status"`
	Data   struct {
		AccessToken  string   `json:"access_token"`
		RefreshToken string   `json:"refresh_token"`
		UserType     string   `json:"user_type"`
		UserID       int      `json:"user_id"`
		Permissions  []string `json:"permissions"`
	} `json:"data"`
}

func post(t *testing.T, app *web.App, path, body string) (int, tokenBody) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	var out tokenBody
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestSignIn(t *testing.T) {
	app, tokens := setup(t)

	cases := []struct {
		name     string
		body     string
		status   int
		userType string
		userID   int
	}{
		{"admin cascade", `{"username":"root","password":"secret1"}`, 200, auth.TypeAdmin, 1},
		{"employee cascade", `{"username":"foreman","password":"secret2"}`, 200, auth.TypeEmployee, 2},
		{"labour typed", `{"username":"L-9","password":"secret9","user_type":"labour"}`, 200, auth.TypeLabour, 9},
		{"wrong table", `{"username":"L-9","password":"secret9","user_type":"admin"}`, 401, "", 0},
		{"wrong password", `{"username":"root","password":"nope"}`, 401, "", 0},
		{"inactive employee", `{"username":"inactive","password":"secret3"}`, 403, "", 0},
		{"bad user type", `{"username":"root","password":"secret1","user_type":"guest"}`, 400, "", 0},
		{"missing password", `{"username":"root"}`, 400, "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, body := post(t, app, "/api/v1/sign-in", tc.body)
			require.Equal(t, tc.status, code)
			if tc.status != 200 {
				assert.False(t, body.Status)
				return
			}

			assert.Equal(t, tc.userType, body.Data.UserType)
			assert.Equal(t, tc.userID, body.Data.UserID)

			claims, err := tokens.ValidateToken(body.Data.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, tc.userID, claims.UserId)
		})
	}
}

func TestSignIn_EmployeeCarriesSite(t *testing.T) {
	app, tokens := setup(t)

	_, body := post(t, app, "/api/v1/sign-in", `{"username":"foreman","password":"secret2","user_type":"employee"}`)
	claims, err := tokens.ValidateToken(body.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 4, claims.SiteID)
}

func TestRefreshToken(t *testing.T) {
	app, _ := setup(t)

	_, signIn := post(t, app, "/api/v1/sign-in", `{"username":"root","password":"secret1"}`)

	code, body := post(t, app, "/api/v1/refresh-token", `{"refresh_token":"`+signIn.Data.RefreshToken+`"}`)
	require.Equal(t, 200, code)
	assert.Equal(t, auth.TypeAdmin, body.Data.UserType)
	assert.ElementsMatch(t, auth.AllCapabilities, body.Data.Permissions)

	code, _ = post(t, app, "/api/v1/refresh-token", `{"refresh_token":"`+signIn.Data.AccessToken+`"}`)
	assert.Equal(t, 401, code)
}
