package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
)

// errNotConnected is returned when a store is used before Connect.
var errNotConnected = errors.New("database connection not established")

// timestampLayout is the text form used for temporal values in stores
// without a native timestamp binding.
const timestampLayout = "2006-01-02 15:04:05"

// Store is a transient relational store holding the relations of one query.
type Store interface {
	// Connect opens a fresh, empty store.
	Connect(ctx context.Context) error

	// Close discards the store and everything registered in it.
	Close() error

	// CreateTable registers a sheet as a relation named after the sheet.
	CreateTable(ctx context.Context, table *models.SheetTable) error

	// Query executes a single statement and collects its result.
	// Errors are the driver's errors, unwrapped.
	Query(ctx context.Context, query string) (*models.ResultTable, error)

	// DialectName returns the engine name (e.g., "sqlite", "duckdb").
	DialectName() string
}

// Dialect holds the per-engine details of table registration.
type Dialect struct {
	// Name is the engine name.
	Name string
	// TypeNames maps a column kind to the engine's column type.
	TypeNames map[models.CellKind]string
	// TimeAsText binds temporal values as timestampLayout text.
	TimeAsText bool
}

// QuoteIdent quotes an identifier so it is used verbatim.
func (d Dialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// ColumnType returns the engine's type for a column kind.
func (d Dialect) ColumnType(kind models.CellKind) string {
	if t, ok := d.TypeNames[kind]; ok {
		return t
	}
	return d.TypeNames[models.KindText]
}

// bind converts a cell value into an argument for a column of the given kind.
func (d Dialect) bind(kind models.CellKind, v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch kind {
	case models.KindText:
		return formatText(v)
	case models.KindReal:
		if i, ok := v.(int64); ok {
			return float64(i)
		}
	case models.KindTime:
		if t, ok := v.(time.Time); ok && d.TimeAsText {
			return t.Format(timestampLayout)
		}
	}
	return v
}

// BaseStore provides the database/sql side of a Store.
// Embed it in concrete stores and implement Connect and DialectName.
type BaseStore struct {
	DB      *sql.DB
	Dialect Dialect
	Logger  *slog.Logger
}

// Close closes the database connection.
func (b *BaseStore) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing store", "dialect", b.Dialect.Name)
		}
		return b.DB.Close()
	}
	return nil
}

// CreateTable creates a typed table named after the sheet and inserts its rows
// in one transaction.
func (b *BaseStore) CreateTable(ctx context.Context, table *models.SheetTable) error {
	if b.DB == nil {
		return errNotConnected
	}

	kinds := make([]models.CellKind, len(table.Columns))
	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		kinds[i] = table.ColumnKind(i)
		defs[i] = b.Dialect.QuoteIdent(col) + " " + b.Dialect.ColumnType(kinds[i])
	}

	name := b.Dialect.QuoteIdent(table.Name)
	//nolint:gosec // identifiers are quoted
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
	if _, err := b.DB.ExecContext(ctx, ddl); err != nil {
		return err
	}

	if len(table.Rows) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(table.Columns)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, placeholders) //nolint:gosec // identifiers are quoted

	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	args := make([]interface{}, len(table.Columns))
	for _, row := range table.Rows {
		for i, v := range row {
			args[i] = b.Dialect.bind(kinds[i], v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Query executes a statement and collects every row.
func (b *BaseStore) Query(ctx context.Context, query string) (*models.ResultTable, error) {
	if b.DB == nil {
		return nil, errNotConnected
	}

	rows, err := b.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	// Declared types let stores that lack native booleans or timestamps
	// hand back the declared kinds.
	declared := make([]string, len(cols))
	if types, err := rows.ColumnTypes(); err == nil {
		for i, ct := range types {
			declared[i] = strings.ToUpper(ct.DatabaseTypeName())
		}
	}

	result := &models.ResultTable{Columns: cols, Rows: [][]interface{}{}}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		valuePtrs := make([]interface{}, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		for i, v := range values {
			values[i] = restoreKind(declared[i], normalizeValue(v))
		}
		result.Rows = append(result.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
