package models

import "time"

// CellKind classifies a typed cell value.
type CellKind int

const (
	// KindNull is an empty cell.
	KindNull CellKind = iota
	// KindText is a string value.
	KindText
	// KindInteger is an int64 value.
	KindInteger
	// KindReal is a float64 value.
	KindReal
	// KindBool is a bool value.
	KindBool
	// KindTime is a time.Time value.
	KindTime
)

func (k CellKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// KindOf reports the kind of a cell value.
// Values outside the supported set are reported as text.
func KindOf(v interface{}) CellKind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindText
	case int64:
		return KindInteger
	case float64:
		return KindReal
	case bool:
		return KindBool
	case time.Time:
		return KindTime
	default:
		return KindText
	}
}
