// Package engine runs SQL over a loaded dataset in a transient relational store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
)

// DefaultStore is the store used when none is configured.
const DefaultStore = "sqlite"

// Engine executes queries against a fresh store per call.
type Engine struct {
	name    string
	factory func(*slog.Logger) Store
	logger  *slog.Logger
}

// New creates an engine backed by the named store ("sqlite" or "duckdb").
// An empty name selects DefaultStore.
func New(name string, logger *slog.Logger) (*Engine, error) {
	if name == "" {
		name = DefaultStore
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownStoreError{Name: name, Available: ListStores()}
	}

	return &Engine{name: name, factory: factory, logger: logger}, nil
}

// Name returns the store name.
func (e *Engine) Name() string {
	return e.name
}

// Run registers every sheet of ds as a relation and executes query.
//
// The token is checked before each registration and once more after the
// query returns; in both cases Run returns sheetsql.ErrCancelled and no
// result. A running statement is never interrupted. Engine failures are
// returned as *sheetsql.QueryError carrying the engine's message.
func (e *Engine) Run(ctx context.Context, ds *models.Dataset, query string, token *sheetsql.CancelToken) (*models.ResultTable, error) {
	store := e.factory(e.logger)
	if err := store.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", e.name, err)
	}
	defer func() { _ = store.Close() }()

	start := time.Now()
	for _, table := range ds.Tables() {
		if err := token.Check(); err != nil {
			e.logger.Debug("registration cancelled", "before", table.Name)
			return nil, err
		}
		if len(table.Columns) == 0 {
			e.logger.Debug("skipping sheet without columns", "sheet", table.Name)
			continue
		}
		if err := store.CreateTable(ctx, table); err != nil {
			return nil, sheetsql.NewQueryError(err)
		}
		e.logger.Debug("relation registered", "relation", table.Name, "rows", len(table.Rows))
	}
	e.logger.Debug("dataset registered", "store", store.DialectName(), "relations", ds.Len(), "elapsed", time.Since(start))

	result, err := store.Query(ctx, query)
	if err != nil {
		return nil, sheetsql.NewQueryError(err)
	}

	if err := token.Check(); err != nil {
		e.logger.Debug("result discarded after cancellation", "rows", len(result.Rows))
		return nil, err
	}

	e.logger.Debug("query finished", "columns", len(result.Columns), "rows", len(result.Rows), "elapsed", time.Since(start))
	return result, nil
}
