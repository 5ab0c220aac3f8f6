package sheetsql

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/parser"
	"github.com/xuri/excelize/v2"
)

// supportedExts lists the OOXML workbook extensions excelize can open.
var supportedExts = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// Load reads every sheet of the workbook at path into a Dataset.
// Loading is all-or-nothing: on error no partial dataset is returned.
func Load(ctx context.Context, path string, opts Options) (*models.Dataset, error) {
	logger := opts.logger()

	// Validate input file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewLoadError(path, "", ErrFileNotFound)
	} else if err != nil {
		return nil, NewLoadError(path, "", err)
	}

	if ext := strings.ToLower(filepath.Ext(path)); !supportedExts[ext] {
		return nil, NewLoadError(path, "", fmt.Errorf("%w: unsupported extension %q", ErrInvalidFormat, ext))
	}

	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewLoadError(path, "", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	defer f.Close()

	// Get sheet names
	sheetList := f.GetSheetList()
	if opts.OnSheetCount != nil {
		opts.OnSheetCount(len(sheetList))
	}
	logger.Debug("workbook opened", "path", path, "sheets", len(sheetList), "elapsed", time.Since(start))

	ds := models.NewDataset(models.Workbook{
		Path:       path,
		SheetNames: sheetList,
	})
	styles := parser.NewStyleCache(f)

	for _, sheetName := range sheetList {
		if err := ctx.Err(); err != nil {
			return nil, NewLoadError(path, sheetName, err)
		}

		table, err := parser.ReadTable(f, sheetName, styles)
		if err != nil {
			return nil, NewLoadError(path, sheetName, err)
		}
		ds.Add(table)

		logger.Debug("sheet loaded", "sheet", sheetName, "columns", len(table.Columns), "rows", len(table.Rows))
	}

	return ds, nil
}

// Loader adapts Load to a progress-callback interface.
type Loader struct {
	Logger *slog.Logger
}

// Load reads the workbook at path, reporting the sheet count through progress.
func (l Loader) Load(ctx context.Context, path string, progress func(n int)) (*models.Dataset, error) {
	return Load(ctx, path, Options{OnSheetCount: progress, Logger: l.Logger})
}
