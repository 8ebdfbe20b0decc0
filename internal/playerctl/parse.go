package playerctl

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberPrefix matches the longest leading decimal number, as atof would read it
var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseSeconds parses a non-negative number of seconds.
// Garbage, NaN, infinities and negative values all read as 0.
func parseSeconds(s string) float64 {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		m := numberPrefix.FindString(s)
		if m == "" {
			return 0
		}
		if v, err = strconv.ParseFloat(m, 64); err != nil {
			return 0
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
