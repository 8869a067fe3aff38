package commands

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"labour/backend/internal/pkg/repository/postgresql"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            username text not null,
            email text,
            password text not null,
            is_super_admin bool not null default false,
            can_access_site bool not null default false,
            can_access_employee bool not null default false,
            can_access_labour bool not null default false,
            can_access_admin bool not null default false,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );
        CREATE UNIQUE INDEX IF NOT EXISTS users_username_uq ON users (username) WHERE deleted_at IS NULL;
        CREATE UNIQUE INDEX IF NOT EXISTS users_email_uq ON users (email) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       2,
		Description: "Create table: sites.",
		Query: `
        CREATE TABLE IF NOT EXISTS sites (
            id serial primary key,
            name text not null,
            location text not null,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );
        CREATE UNIQUE INDEX IF NOT EXISTS sites_name_uq ON sites (name) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       3,
		Description: "Create table: employees.",
		Query: `
        CREATE TABLE IF NOT EXISTS employees (
            id serial primary key,
            username text not null,
            password text not null,
            site_id int references sites(id),
            is_active bool not null default true,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );
        CREATE UNIQUE INDEX IF NOT EXISTS employees_username_uq ON employees (username) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       4,
		Description: "Create table: labour.",
		Query: `
        CREATE TABLE IF NOT EXISTS labour (
            id serial primary key,
            name text not null,
            labour_code text not null,
            password text not null,
            is_active bool not null default true,
            visa_cost numeric(12,2) not null default 0,
            visa_paid numeric(12,2) not null default 0,
            advance_payment numeric(12,2) not null default 0,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );
        CREATE UNIQUE INDEX IF NOT EXISTS labour_code_uq ON labour (labour_code) WHERE deleted_at IS NULL;`,
	},
	{
		Index:       5,
		Description: "Create table: labour_entries.",
		Query: `
        CREATE TABLE IF NOT EXISTS labour_entries (
            id serial primary key,
            labour_id int not null references labour(id),
            employee_id int not null references employees(id),
            site_id int not null references sites(id),
            timestamp timestamp not null default now(),
            activity text not null,
            status text not null,
            unit text not null,
            rate_type text not null,
            rate numeric(12,2) not null default 0,
            total_hours numeric(8,2),
            qty numeric(12,2),
            amount numeric(12,2) not null default 0,
            created_at timestamp default now(),
            created_by int,
            updated_at timestamp,
            updated_by int,
            deleted_at timestamp,
            deleted_by int
        );`,
	},
	{
		Index:       6,
		Description: "Create indexes: labour_entries by labour, site and day.",
		Query: `
        CREATE INDEX IF NOT EXISTS labour_entries_labour_ts_idx ON labour_entries (labour_id, timestamp) WHERE deleted_at IS NULL;
        CREATE INDEX IF NOT EXISTS labour_entries_site_ts_idx ON labour_entries (site_id, timestamp) WHERE deleted_at IS NULL;
        CREATE INDEX IF NOT EXISTS labour_entries_ts_idx ON labour_entries (timestamp) WHERE deleted_at IS NULL;`,
	},
}

// MigrateUP applies every scheme newer than the recorded version. A version
// left dirty by a failed run is retried first.
func MigrateUP(ctx context.Context, db *postgresql.Database) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text)`); err != nil {
		return errors.Wrap(err, "creating schema_migrations")
	}

	var (
		version int
		dirty   bool
	)

	rows, err := db.QueryContext(ctx, `SELECT version, dirty FROM schema_migrations`)
	if err != nil {
		return errors.Wrap(err, "selecting schema_migrations")
	}
	found := rows.Next()
	if found {
		err = rows.Scan(&version, &dirty)
	} else {
		err = rows.Err()
	}
	rows.Close()
	if err != nil {
		return errors.Wrap(err, "scanning schema_migrations")
	}

	if !found {
		if _, err = db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (0, false)`); err != nil {
			return errors.Wrap(err, "initialising schema_migrations")
		}
	}

	if dirty {
		version--
	}

	for _, s := range scheme {
		if s.Index <= version {
			continue
		}

		log.Printf("migrate: %d %s", s.Index, s.Description)

		if _, err = db.ExecContext(ctx, s.Query); err != nil {
			if _, uErr := db.ExecContext(ctx, `UPDATE schema_migrations SET error = ?, version = ?, dirty = true`, err.Error(), s.Index); uErr != nil {
				return errors.Wrap(uErr, "recording migrate error")
			}
			return errors.Wrapf(err, "migrate version %d", s.Index)
		}

		if _, err = db.ExecContext(ctx, `UPDATE schema_migrations SET version = ?, dirty = false, error = null`, s.Index); err != nil {
			return errors.Wrap(err, "updating schema_migrations")
		}
	}

	return nil
}

// SeedSuperAdmin creates the super admin unless one with username exists.
func SeedSuperAdmin(ctx context.Context, db *postgresql.Database, username, password string) error {
	if username == "" || password == "" {
		return errors.New("super admin username and password are required")
	}

	exists, err := db.NewSelect().Table("users").
		Where("username = ? AND deleted_at IS NULL", username).
		Exists(ctx)
	if err != nil {
		return errors.Wrap(err, "checking super admin")
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hashing super admin password")
	}

	_, err = db.ExecContext(ctx, `
        INSERT INTO users (username, password, is_super_admin, can_access_site, can_access_employee, can_access_labour, can_access_admin)
        VALUES (?, ?, true, true, true, true, true)`, username, string(hash))
	if err != nil {
		return errors.Wrap(err, "creating super admin")
	}

	log.Printf("migrate: super admin %q created", username)
	return nil
}
