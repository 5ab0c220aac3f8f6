package parser

import (
	"github.com/ukaji3/sheetsql-go/pkg/sheetsql/models"
)

// DataRegion returns the bounding box of non-empty cells in 1-based
// coordinates. ok is false when every cell is empty.
func DataRegion(rows [][]string) (region models.CellRange, ok bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return models.CellRange{}, false
	}
	return models.CellRange{
		R1: minRow + 1,
		C1: minCol + 1,
		R2: maxRow + 1,
		C2: maxCol + 1,
	}, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}
