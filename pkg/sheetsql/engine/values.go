package engine

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"time"
)

// normalizeValue maps driver values onto the cell kinds the exporter
// understands: nil, string, int64, float64, bool and time.Time.
func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, int64, float64, bool, time.Time:
		return x
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
		return float64(x)
	case float32:
		return float64(x)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case interface{ Float64() float64 }:
		return x.Float64()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// restoreKind converts values of columns declared BOOLEAN or as a timestamp
// back to bool and time.Time when the store returned integers or text.
func restoreKind(declared string, v interface{}) interface{} {
	switch declared {
	case "BOOLEAN", "BOOL":
		if i, ok := v.(int64); ok {
			return i != 0
		}
	case "TIMESTAMP", "DATETIME", "DATE":
		if s, ok := v.(string); ok {
			if t, err := time.Parse(timestampLayout, s); err == nil {
				return t
			}
		}
	}
	return v
}

// formatText renders a value for a text column.
func formatText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(timestampLayout)
	default:
		return fmt.Sprint(x)
	}
}
