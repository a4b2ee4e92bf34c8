package util

import (
	"math"
	"strconv"
)

// ParseIntDefault parses s as an int, returning def when s is empty or
// not a valid integer.
func ParseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
