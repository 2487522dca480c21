package grid

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stringer struct{}

func (stringer) String() string { return "str" }

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{[]byte("b"), "b"},
		{true, "true"},
		{42, "42"},
		{int8(-3), "-3"},
		{uint16(7), "7"},
		{1.5, "1.5"},
		{float32(0.25), "0.25"},
		{ts, "2024-03-01T12:00:00Z"},
		{time.Time{}, ""},
		{stringer{}, "str"},
		{[]int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in), "FormatValue(%#v)", tt.in)
	}
}

func TestCompare(t *testing.T) {
	t1 := time.Unix(100, 0)
	t2 := time.Unix(200, 0)

	assert.Equal(t, 0, Compare(nil, nil))
	assert.Equal(t, -1, Compare(nil, 0))
	assert.Equal(t, 1, Compare("a", nil))
	assert.Equal(t, -1, Compare(false, true))
	assert.Equal(t, -1, Compare(2, 10), "numbers compare numerically")
	assert.Equal(t, -1, Compare(int64(math.MaxInt64-1), int64(math.MaxInt64)))
	assert.Equal(t, 1, Compare(uint64(math.MaxUint64), uint64(math.MaxUint64-1)))
	assert.Equal(t, 0, Compare(3, 3.0))
	assert.Equal(t, -1, Compare(math.NaN(), -1e300))
	assert.Equal(t, -1, Compare(t1, t2))
	assert.Equal(t, 1, Compare("b", "a"))
	assert.Equal(t, 0, Compare([]byte("a"), "a"))
	assert.Equal(t, -1, Compare(1, "1"), "numbers rank below strings")
}
