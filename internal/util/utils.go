package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingInt = regexp.MustCompile(`^[+-]?\d+`)

func ParseLeadingInt(s string) (n int, ok bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

func TruncInt(f float64) (n int, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	t := math.Trunc(f)
	if t > math.MaxInt32 || t < math.MinInt32 {
		return 0, false
	}
	return int(t), true
}
