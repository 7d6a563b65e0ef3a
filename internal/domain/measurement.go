package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseMeasurement converts a raw field value into a number.
//
// It is the only place raw measurement text is interpreted. Empty text, values
// below the detection limit ("<LOQ", "<0.5", ...) and anything that does not
// parse as a finite float all map to 0. A result of 0 therefore means "zero or
// unknown" and must not be read as proof that a chemical is absent.
func ParseMeasurement(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, "<") {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
