package report

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"labour/backend/foundation/web"
	"labour/backend/internal/pkg/repository/postgresql"
)

func newRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { db.Close() })

	return NewRepository(&postgresql.Database{DB: db}), mock
}

func TestSites(t *testing.T) {
	r, mock := newRepository(t)
	mock.ExpectQuery(`SELECT id, name, location FROM sites`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}).
			AddRow(1, "Al Barsha Villas", "Dubai").
			AddRow(2, "Marina Tower", "Dubai"))

	sites, err := r.Sites(context.Background())
	require.NoError(t, err)

	assert.Len(t, sites, 2)
	assert.Equal(t, "Marina Tower", sites[2].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSites_BrokenIteration(t *testing.T) {
	r, mock := newRepository(t)
	mock.ExpectQuery(`SELECT id, name, location FROM sites`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "location"}).
			AddRow(1, "Al Barsha Villas", "Dubai").
			AddRow(2, "Marina Tower", "Dubai").
			RowError(1, errors.New("connection reset")))

	sites, err := r.Sites(context.Background())
	require.Error(t, err)
	assert.Nil(t, sites)
	assert.Equal(t, 500, web.StatusOf(err))
}

func TestLabourers(t *testing.T) {
	r, mock := newRepository(t)

	empty, err := r.Labourers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	mock.ExpectQuery(`SELECT id, name, labour_code FROM labour WHERE id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "labour_code"}).
			AddRow(3, "Ravi", "L-003").
			AddRow(4, "Amit", "L-004").
			RowError(1, errors.New("connection reset")))

	labourers, err := r.Labourers(context.Background(), []int{3, 4})
	require.Error(t, err)
	assert.Nil(t, labourers)
}
