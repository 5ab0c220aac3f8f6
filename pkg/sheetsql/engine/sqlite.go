package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

func init() {
	Register("sqlite", func(logger *slog.Logger) Store { return NewSQLiteStore(logger) })
}

// SQLiteDialect stores booleans as BOOLEAN (0/1) and timestamps as text.
var SQLiteDialect = Dialect{
	Name: "sqlite",
	TypeNames: map[models.CellKind]string{
		models.KindText:    "TEXT",
		models.KindInteger: "INTEGER",
		models.KindReal:    "REAL",
		models.KindBool:    "BOOLEAN",
		models.KindTime:    "TIMESTAMP",
	},
	TimeAsText: true,
}

// SQLiteStore is an in-memory SQLite store.
type SQLiteStore struct {
	BaseStore
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	return &SQLiteStore{BaseStore: BaseStore{Dialect: SQLiteDialect, Logger: logger}}
}

// DialectName returns the SQL dialect for this store.
func (s *SQLiteStore) DialectName() string {
	return "sqlite"
}

// Connect opens a private in-memory database.
func (s *SQLiteStore) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.DB = db
	return nil
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
