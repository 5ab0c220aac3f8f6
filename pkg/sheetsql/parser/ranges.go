package parser

import (
	"fmt"
	"strings"

	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
	"github.com/xuri/excelize/v2"
)

// FormatRange renders a cell range as an A1-style reference such as "A1:AB10".
// Column letters follow the spreadsheet base-26 scheme (Z, AA, AB, ... XFD).
func FormatRange(area models.CellRange) (string, error) {
	start, err := excelize.CoordinatesToCellName(area.C1, area.R1)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(area.C2, area.R2)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", start, end), nil
}

// ParseRange parses a reference like $A$1:$D$10 or 'Sheet 1'!A1:D10.
func ParseRange(ref string) (models.CellRange, error) {
	// Drop an optional sheet qualifier
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		ref = ref[idx+1:]
	}

	// Remove $ signs
	ref = strings.ReplaceAll(ref, "$", "")

	// Split by :
	parts := strings.Split(ref, ":")
	if len(parts) != 2 {
		return models.CellRange{}, fmt.Errorf("invalid range reference %q", ref)
	}

	startCol, startRow, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return models.CellRange{}, err
	}

	endCol, endRow, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return models.CellRange{}, err
	}

	return models.CellRange{
		R1: startRow,
		C1: startCol,
		R2: endRow,
		C2: endCol,
	}, nil
}
