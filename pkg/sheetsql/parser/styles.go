package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// builtInDateFormats lists the built-in number format IDs that render dates or times.
var builtInDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// StyleCache memoizes whether a cell style index carries a date format.
// It is not safe for concurrent use.
type StyleCache struct {
	f        *excelize.File
	date1904 bool
	isDate   map[int]bool
}

// NewStyleCache creates a cache bound to a workbook.
func NewStyleCache(f *excelize.File) *StyleCache {
	c := &StyleCache{f: f, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		c.date1904 = *props.Date1904
	}
	return c
}

// Date1904 reports whether the workbook uses the 1904 date system.
func (c *StyleCache) Date1904() bool {
	return c.date1904
}

// IsDate reports whether the cell's number format renders a date or time.
func (c *StyleCache) IsDate(sheetName, cellName string) bool {
	idx, err := c.f.GetCellStyle(sheetName, cellName)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := c.isDate[idx]; ok {
		return v
	}

	isDate := false
	if style, err := c.f.GetStyle(idx); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = IsDateFormat(*style.CustomNumFmt)
		} else {
			isDate = builtInDateFormats[style.NumFmt]
		}
	}
	c.isDate[idx] = isDate
	return isDate
}

// IsDateFormat reports whether a number format code renders a date or time.
// Quoted literals, escaped characters and bracketed sections such as colors
// and locales are ignored.
func IsDateFormat(code string) bool {
	// Only the first section (positive numbers) decides.
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			// Elapsed-time sections like [h] still mean time.
			if end := strings.IndexByte(code[i:], ']'); end > 0 {
				inner := strings.ToLower(code[i+1 : i+end])
				if inner != "" && strings.Trim(inner, "hms") == "" {
					return true
				}
			}
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			b.WriteByte(ch)
		}
	}

	stripped := strings.ToLower(b.String())
	if stripped == "general" {
		return false
	}
	return strings.ContainsAny(stripped, "ydmhs")
}
