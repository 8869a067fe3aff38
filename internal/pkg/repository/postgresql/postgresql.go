package postgresql

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"labour/backend/foundation/web"
	"labour/backend/internal/auth"
)

type Config struct {
	User       string
	Password   string
	Host       string
	Port       string
	Name       string
	DisableTLS bool
	Debug      bool
}

type Database struct {
	*bun.DB
}

func New(ctx context.Context, cfg Config) (*Database, error) {
	opts := []pgdriver.Option{
		pgdriver.WithAddr(net.JoinHostPort(cfg.Host, cfg.Port)),
		pgdriver.WithUser(cfg.User),
		pgdriver.WithPassword(cfg.Password),
		pgdriver.WithDatabase(cfg.Name),
		pgdriver.WithTimeout(5 * time.Second),
	}
	if cfg.DisableTLS {
		opts = append(opts, pgdriver.WithInsecure(true))
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(opts...))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}

	return &Database{DB: db}, nil
}

// CheckClaims returns the principal stored in ctx if it is one of types.
func (d Database) CheckClaims(ctx context.Context, types ...string) (auth.Claims, error) {
	claims, ok := auth.FromContext(ctx)
	if !ok {
		return auth.Claims{}, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	if !claims.Authorized(types...) {
		return auth.Claims{}, web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
	}

	return claims, nil
}

// CheckCapability is CheckClaims for admins holding capability.
func (d Database) CheckCapability(ctx context.Context, capability string) (auth.Claims, error) {
	claims, err := d.CheckClaims(ctx, auth.TypeAdmin)
	if err != nil {
		return auth.Claims{}, err
	}

	if !claims.Can(capability) {
		return auth.Claims{}, web.NewRequestError(errors.Errorf("permission %s required", capability), http.StatusForbidden)
	}

	return claims, nil
}

func (d Database) ValidateStruct(s interface{}, fields ...string) error {
	return web.ValidateStruct(s, fields...)
}

// DeleteRow soft deletes a row by id.
func (d Database) DeleteRow(ctx context.Context, table string, id int) error {
	claims, _ := auth.FromContext(ctx)

	res, err := d.NewUpdate().
		Table(table).
		Set("deleted_at = ?", time.Now()).
		Set("deleted_by = ?", claims.UserId).
		Where("deleted_at IS NULL AND id = ?", id).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrapf(err, "deleting %s", table), http.StatusInternalServerError)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return web.NewRequestError(errors.Errorf("%s not found", table), http.StatusNotFound)
	}

	return nil
}
