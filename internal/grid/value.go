package grid

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind ranks used when two values of different kinds are compared.
// nil always sorts first.
const (
	kindNil = iota
	kindBool
	kindNumber
	kindTime
	kindString
	kindOther
)

// FormatValue renders an accessor result as display text. It is also the
// text that free-text and set filters match against. nil renders as "".
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(x), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(x), 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Compare is the default total order over accessor results: numbers
// numerically, strings lexicographically, times chronologically, bools
// false before true. nil is the lowest key. Values of different kinds are
// ordered by kind so the order stays total.
func Compare(a, b any) int {
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}

	switch ka {
	case kindNil:
		return 0
	case kindBool:
		return compareBool(a.(bool), b.(bool))
	case kindNumber:
		return compareNumber(a, b)
	case kindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case kindString:
		return strings.Compare(stringOf(a), stringOf(b))
	default:
		return strings.Compare(FormatValue(a), FormatValue(b))
	}
}

func kindOf(v any) int {
	switch v.(type) {
	case nil:
		return kindNil
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return kindNumber
	case time.Time:
		return kindTime
	case string, []byte:
		return kindString
	default:
		return kindOther
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

// compareNumber keeps integer precision when both sides are integers and
// falls back to float64 otherwise. NaN sorts below every other number.
func compareNumber(a, b any) int {
	if isSigned(a) && isSigned(b) {
		return cmp.Compare(toInt64(a), toInt64(b))
	}
	if isUnsigned(a) && isUnsigned(b) {
		return cmp.Compare(toUint64(a), toUint64(b))
	}

	fa, fb := toFloat64(a), toFloat64(b)
	aNaN, bNaN := math.IsNaN(fa), math.IsNaN(fb)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	}
	return cmp.Compare(fa, fb)
}

func stringOf(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v.(string)
}

func isSigned(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64:
		return true
	}
	return false
}

func isUnsigned(v any) bool {
	switch v.(type) {
	case uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	}
	return 0
}

func toUint64(v any) uint64 {
	switch x := v.(type) {
	case uint:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	}
	return 0
}

func toFloat64(v any) float64 {
	switch x := v.(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	}
	if isSigned(v) {
		return float64(toInt64(v))
	}
	return float64(toUint64(v))
}
