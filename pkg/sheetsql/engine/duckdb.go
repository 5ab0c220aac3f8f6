package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	Register("duckdb", func(logger *slog.Logger) Store { return NewDuckDBStore(logger) })
}

// DuckDBDialect binds every kind natively.
var DuckDBDialect = Dialect{
	Name: "duckdb",
	TypeNames: map[models.CellKind]string{
		models.KindText:    "VARCHAR",
		models.KindInteger: "BIGINT",
		models.KindReal:    "DOUBLE",
		models.KindBool:    "BOOLEAN",
		models.KindTime:    "TIMESTAMP",
	},
}

// DuckDBStore is an in-memory DuckDB store.
type DuckDBStore struct {
	BaseStore
}

// NewDuckDBStore creates a new DuckDB store instance.
func NewDuckDBStore(logger *slog.Logger) *DuckDBStore {
	return &DuckDBStore{BaseStore: BaseStore{Dialect: DuckDBDialect, Logger: logger}}
}

// DialectName returns the SQL dialect for this store.
func (s *DuckDBStore) DialectName() string {
	return "duckdb"
}

// Connect opens a private in-memory database.
func (s *DuckDBStore) Connect(ctx context.Context) error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("failed to open duckdb connection: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping duckdb: %w", err)
	}

	s.DB = db
	return nil
}

// Ensure DuckDBStore implements Store
var _ Store = (*DuckDBStore)(nil)
