package source

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"
)

// cellKind is the inferred type of a text column.
type cellKind int

const (
	kindInt cellKind = iota
	kindFloat
	kindBool
	kindTime
	kindString
)

// timeLayouts are the timestamp shapes recognised in text input.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// inferKind picks the first kind every non-empty value parses as.
// A column with no values is text.
func inferKind(values []string) cellKind {
	for k := kindInt; k < kindString; k++ {
		ok, seen := true, false
		for _, v := range values {
			if v == "" {
				continue
			}
			seen = true
			if !parsesAs(v, k) {
				ok = false
				break
			}
		}
		if !seen {
			return kindString
		}
		if ok {
			return k
		}
	}
	return kindString
}

func parsesAs(v string, k cellKind) bool {
	switch k {
	case kindInt:
		_, err := strconv.ParseInt(v, 10, 64)
		return err == nil
	case kindFloat:
		// NaN and Inf parse but cannot be encoded as JSON.
		f, err := strconv.ParseFloat(v, 64)
		return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case kindBool:
		_, ok := parseBool(v)
		return ok
	case kindTime:
		_, ok := parseTime(v)
		return ok
	}
	return true
}

// convert turns text into a value of kind k. Empty text is nil.
func convert(v string, k cellKind) any {
	if v == "" {
		return nil
	}
	switch k {
	case kindInt:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case kindFloat:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case kindBool:
		b, _ := parseBool(v)
		return b
	case kindTime:
		t, _ := parseTime(v)
		return t
	}
	return v
}

// parseBool accepts true/false and yes/no in any case. 0/1 are left to
// the integer kind.
func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// floatValue returns f, or its text when f is NaN or infinite, which JSON
// cannot encode.
func floatValue(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

// normalize converts driver and decoder values into the scalars the grid
// orders natively: integers, floats, bools, strings, times and nil.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, string, int64, time.Time:
		return x
	case float64:
		return floatValue(x)
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
	case float32:
		return floatValue(float64(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	case []byte:
		return bytesValue(x)
	case [16]byte:
		return formatUUID(x)
	case pgtype.Numeric:
		if !x.Valid {
			return nil
		}
		if x.Exp == 0 && x.Int != nil && x.Int.IsInt64() {
			return x.Int.Int64()
		}
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return floatValue(f.Float64)
	case *big.Int:
		if x.IsInt64() {
			return x.Int64()
		}
		return x.String()
	case fmt.Stringer:
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// bytesValue shows printable byte slices as text and binary ones as a
// size marker.
func bytesValue(b []byte) any {
	if utf8.Valid(b) {
		printable := true
		for _, c := range b {
			if c < 32 && c != '\n' && c != '\r' && c != '\t' {
				printable = false
				break
			}
		}
		if printable {
			return string(b)
		}
	}
	return fmt.Sprintf("[%d bytes]", len(b))
}

func formatUUID(u [16]byte) string {
	return fmt.Sprintf("%x-%x-%x-%x-%x", u[0:4], u[4:6], u[6:8], u[8:10], u[10:16])
}
