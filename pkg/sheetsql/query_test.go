package sheetsql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.txt")

	require.NoError(t, SaveQuery(path, "  SELECT * FROM Orders\n"))

	got, err := LoadQuery(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM Orders", got)
}

func TestSaveQuery_RejectsBlank(t *testing.T) {
	err := SaveQuery(filepath.Join(t.TempDir(), "query.txt"), " \n\t")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestLoadQuery_Missing(t *testing.T) {
	_, err := LoadQuery(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{filepath.Join("data", "report.xlsx"), filepath.Join("data", "report_output.xlsx")},
		{"book.xlsm", "book_output.xlsx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DefaultOutputPath(tt.input))
	}
}

func TestCancelToken(t *testing.T) {
	var nilToken *CancelToken
	assert.False(t, nilToken.Cancelled())
	assert.NoError(t, nilToken.Check())

	var token CancelToken
	assert.NoError(t, token.Check())

	token.Cancel()
	assert.True(t, token.Cancelled())
	assert.ErrorIs(t, token.Check(), ErrCancelled)

	token.Reset()
	assert.False(t, token.Cancelled())
}
