package sheetsql

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadQuery reads query text from a file.
func LoadQuery(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read query file: %w", err)
	}
	return string(data), nil
}

// SaveQuery writes query text to a file. Blank text is rejected with ErrEmptyQuery.
func SaveQuery(path, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrEmptyQuery
	}
	if err := os.WriteFile(path, []byte(query), 0644); err != nil {
		return fmt.Errorf("failed to save query: %w", err)
	}
	return nil
}

// DefaultOutputPath derives "<dir>/<stem>_output.xlsx" from an input path.
func DefaultOutputPath(inputPath string) string {
	dir := filepath.Dir(inputPath)
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(dir, stem+"_output.xlsx")
}
