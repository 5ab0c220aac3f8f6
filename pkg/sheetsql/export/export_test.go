package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/sheetsql-go/internal/testutil"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
	"github.com/xuri/excelize/v2"
)

func openResult(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExport_SumScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	res := &models.ResultTable{Columns: []string{"total"}, Rows: [][]interface{}{{int64(30)}}}

	err := New(testutil.NewTestLogger(t)).Export(context.Background(), res, path, nil)
	require.NoError(t, err)

	f := openResult(t, path)
	assert.Equal(t, []string{DefaultSheetName}, f.GetSheetList())

	tables, err := f.GetTables(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:A2", tables[0].Range)
	assert.Equal(t, DefaultTableName, tables[0].Name)
	assert.Equal(t, DefaultTableStyle, tables[0].StyleName)
	assert.False(t, tables[0].ShowColumnStripes)

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"total"}, {"30"}}, rows)

	width, err := f.GetColWidth(DefaultSheetName, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(len("total")+DefaultPadding), width)
}

func TestExport_WideResult(t *testing.T) {
	const n = 30
	res := &models.ResultTable{Columns: make([]string, n), Rows: [][]interface{}{make([]interface{}, n)}}
	for i := 0; i < n; i++ {
		res.Columns[i] = fmt.Sprintf("c%d", i+1)
		res.Rows[0][i] = int64(i)
	}
	path := filepath.Join(t.TempDir(), "wide.xlsx")

	require.NoError(t, New(nil).Export(context.Background(), res, path, nil))

	f := openResult(t, path)
	tables, err := f.GetTables(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:AD2", tables[0].Range)

	width, err := f.GetColWidth(DefaultSheetName, "AD")
	require.NoError(t, err)
	assert.Equal(t, float64(len("c30")+DefaultPadding), width)
}

func TestExport_EmptyResultKeepsBodyRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	res := &models.ResultTable{Columns: []string{"a", "b"}, Rows: [][]interface{}{}}

	require.NoError(t, New(nil).Export(context.Background(), res, path, nil))

	tables, err := openResult(t, path).GetTables(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "A1:B2", tables[0].Range)
}

func TestExport_DuplicateHeadersAreRenamed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupes.xlsx")
	res := &models.ResultTable{Columns: []string{"id", "id", ""}, Rows: [][]interface{}{{int64(1), int64(2), "x"}}}

	require.NoError(t, New(nil).Export(context.Background(), res, path, nil))

	rows, err := openResult(t, path).GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "id.1", "Unnamed: 2"}, rows[0])
}

func TestExport_RoundTrip(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	res := &models.ResultTable{
		Columns: []string{"name", "qty", "price", "paid", "at", "note"},
		Rows: [][]interface{}{
			{"Alice", int64(3), 2.5, true, when, nil},
			{"Bob", int64(-1), 0.125, false, when, "late"},
		},
	}
	path := filepath.Join(t.TempDir(), "round.xlsx")
	require.NoError(t, New(nil).Export(context.Background(), res, path, nil))

	ds, err := sheetsql.Load(context.Background(), path, sheetsql.Options{Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)

	table, ok := ds.Table(DefaultSheetName)
	require.True(t, ok)
	assert.Equal(t, res.Columns, table.Columns)
	require.Len(t, table.Rows, 2)

	for i, want := range res.Rows {
		got := table.Rows[i]
		assert.Equal(t, want[0], got[0])
		assert.Equal(t, want[1], got[1])
		assert.Equal(t, want[2], got[2])
		assert.Equal(t, want[3], got[3])
		at, ok := got[4].(time.Time)
		require.True(t, ok, "expected time.Time, got %T", got[4])
		assert.WithinDuration(t, when, at, time.Second)
		assert.Equal(t, want[5], got[5])
	}
}

func TestExport_CancelDuringWidthPass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cancelled.xlsx")
	res := &models.ResultTable{
		Columns: []string{"a_long_header_name"},
		Rows:    [][]interface{}{{"v"}},
	}

	var token sheetsql.CancelToken
	token.Cancel()

	err := New(nil).Export(context.Background(), res, path, &token)
	require.ErrorIs(t, err, sheetsql.ErrCancelled)

	var exportErr *sheetsql.ExportError
	assert.False(t, errors.As(err, &exportErr))

	// Data and table were saved before the width pass.
	f := openResult(t, path)
	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a_long_header_name"}, {"v"}}, rows)

	width, err := f.GetColWidth(DefaultSheetName, "A")
	require.NoError(t, err)
	assert.NotEqual(t, float64(len("a_long_header_name")+DefaultPadding), width)
}

func TestExport_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		res     *models.ResultTable
		path    string
		wantErr error
	}{
		{
			name:    "no columns",
			res:     &models.ResultTable{},
			path:    filepath.Join(dir, "none.xlsx"),
			wantErr: ErrNoColumns,
		},
		{
			name:    "too many columns",
			res:     &models.ResultTable{Columns: make([]string, excelize.MaxColumns+1)},
			path:    filepath.Join(dir, "wide.xlsx"),
			wantErr: ErrTooManyColumns,
		},
		{
			name:    "too many rows",
			res:     &models.ResultTable{Columns: []string{"a"}, Rows: make([][]interface{}, excelize.TotalRows)},
			path:    filepath.Join(dir, "tall.xlsx"),
			wantErr: ErrTooManyRows,
		},
		{
			name: "cell too long",
			res: &models.ResultTable{
				Columns: []string{"a"},
				Rows:    [][]interface{}{{strings.Repeat("x", excelize.TotalCellChars+1)}},
			},
			path:    filepath.Join(dir, "long.xlsx"),
			wantErr: ErrCellTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(nil).Export(context.Background(), tt.res, tt.path, nil)

			var exportErr *sheetsql.ExportError
			require.True(t, errors.As(err, &exportErr))
			assert.Equal(t, tt.path, exportErr.Path)
			assert.ErrorIs(t, err, tt.wantErr)

			_, statErr := os.Stat(tt.path)
			assert.True(t, os.IsNotExist(statErr), "no file should be written")
		})
	}
}

func TestExport_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "out.xlsx")
	res := &models.ResultTable{Columns: []string{"a"}, Rows: [][]interface{}{{int64(1)}}}

	err := New(nil).Export(context.Background(), res, path, nil)

	var exportErr *sheetsql.ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, path, exportErr.Path)
}

func TestColumnWidths(t *testing.T) {
	res := &models.ResultTable{
		Columns: []string{"name", "n", "when", "empty", "wide"},
		Rows: [][]interface{}{
			{"Alice", int64(12345), time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), nil, strings.Repeat("w", 400)},
			{"日本語テキスト", 1.5, nil, nil, "x"},
		},
	}

	assert.Equal(t, []float64{9, 7, 21, 7, excelize.MaxColumnWidth}, ColumnWidths(res, 2))
}

func TestTableRange(t *testing.T) {
	tests := []struct {
		columns, rows int
		expected      string
	}{
		{1, 1, "A1:A2"},
		{1, 0, "A1:A2"},
		{26, 9, "A1:Z10"},
		{27, 1, "A1:AA2"},
		{excelize.MaxColumns, 3, "A1:XFD4"},
	}

	for _, tt := range tests {
		got, err := TableRange(tt.columns, tt.rows)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}
