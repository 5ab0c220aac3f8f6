package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetsql-go/internal/testutil"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
)

// mockStore runs the shared store logic against a sqlmock connection.
type mockStore struct {
	BaseStore
}

func (m *mockStore) Connect(context.Context) error { return nil }

func (m *mockStore) DialectName() string { return "mock" }

func newMock(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)

	e := &Engine{
		name: "mock",
		factory: func(logger *slog.Logger) Store {
			return &mockStore{BaseStore{DB: db, Dialect: SQLiteDialect, Logger: logger}}
		},
		logger: testutil.NewTestLogger(t),
	}
	return e, mock
}

func TestBaseStore_RegistersAndQueries(t *testing.T) {
	e, mock := newMock(t)

	mock.ExpectExec(`CREATE TABLE "Orders" ("id" INTEGER, "amt" INTEGER)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO "Orders" VALUES (?, ?)`)
	prep.ExpectExec().WithArgs(int64(1), int64(10)).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(int64(2), int64(20)).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT SUM(amt) AS total FROM Orders").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(int64(30)))
	mock.ExpectClose()

	result, err := e.Run(context.Background(), newDataset(ordersTable()), "SELECT SUM(amt) AS total FROM Orders", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"total"}, result.Columns)
	assert.Equal(t, [][]interface{}{{int64(30)}}, result.Rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseStore_QuotesIdentifiersAndBindsKinds(t *testing.T) {
	e, mock := newMock(t)

	table := &models.SheetTable{
		Name:    `Odd "Name"`,
		Columns: []string{"n", "label"},
		Rows: [][]interface{}{
			{int64(1), "a"},
			{2.5, int64(3)},
		},
	}

	mock.ExpectExec(`CREATE TABLE "Odd ""Name""" ("n" REAL, "label" TEXT)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO "Odd ""Name""" VALUES (?, ?)`)
	prep.ExpectExec().WithArgs(float64(1), "a").WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs(2.5, "3").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))
	mock.ExpectClose()

	_, err := e.Run(context.Background(), newDataset(table), "SELECT 1", nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseStore_RollsBackFailedInsert(t *testing.T) {
	e, mock := newMock(t)

	mock.ExpectExec(`CREATE TABLE "Orders" ("id" INTEGER, "amt" INTEGER)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO "Orders" VALUES (?, ?)`)
	prep.ExpectExec().WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()
	mock.ExpectClose()

	_, err := e.Run(context.Background(), newDataset(ordersTable()), "SELECT 1", nil)

	var queryErr *sheetsql.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "disk I/O error", queryErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_SurfacesEngineMessageUnmodified(t *testing.T) {
	e, mock := newMock(t)

	mock.ExpectQuery("SELECT * FROM Missing").WillReturnError(errors.New("no such table: Missing"))
	mock.ExpectClose()

	_, err := e.Run(context.Background(), newDataset(), "SELECT * FROM Missing", nil)

	var queryErr *sheetsql.QueryError
	require.True(t, errors.As(err, &queryErr))
	assert.Equal(t, "no such table: Missing", queryErr.Error())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_CancelBeforeRegistrationRunsNoSQL(t *testing.T) {
	e, mock := newMock(t)
	mock.ExpectClose()

	var token sheetsql.CancelToken
	token.Cancel()

	result, err := e.Run(context.Background(), newDataset(ordersTable(), customersTable()), "SELECT 1", &token)
	assert.ErrorIs(t, err, sheetsql.ErrCancelled)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// hookStore calls onQuery while the query is "running".
type hookStore struct {
	onQuery func()
	closed  bool
}

func (h *hookStore) Connect(context.Context) error { return nil }

func (h *hookStore) Close() error {
	h.closed = true
	return nil
}

func (h *hookStore) CreateTable(context.Context, *models.SheetTable) error { return nil }

func (h *hookStore) Query(context.Context, string) (*models.ResultTable, error) {
	h.onQuery()
	return &models.ResultTable{Columns: []string{"x"}, Rows: [][]interface{}{{int64(1)}}}, nil
}

func (h *hookStore) DialectName() string { return "hook" }

func TestEngine_CancelDuringQueryDiscardsResult(t *testing.T) {
	var token sheetsql.CancelToken
	store := &hookStore{onQuery: token.Cancel}
	e := &Engine{name: "hook", factory: func(*slog.Logger) Store { return store }, logger: testutil.NewTestLogger(t)}

	result, err := e.Run(context.Background(), newDataset(ordersTable()), "SELECT x", &token)
	assert.ErrorIs(t, err, sheetsql.ErrCancelled)
	assert.Nil(t, result)
	assert.True(t, store.closed, "store must be discarded after cancellation")
}

func TestBaseStore_NotConnected(t *testing.T) {
	base := &BaseStore{Dialect: SQLiteDialect}

	assert.Error(t, base.CreateTable(context.Background(), ordersTable()))
	_, err := base.Query(context.Background(), "SELECT 1")
	assert.Error(t, err)
	assert.NoError(t, base.Close())
}
