package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// The milestone spreadsheets record compute in loosely formatted strings:
// exact scientific notation ("3.14E+23"), approximations ("~1e20+"), ranges
// ("1e24-1e25"), bounds (">1e26"), hedges ("~few e23"), and editorial tags
// ("Speculative", "Proxy (low)", "High compute", "N/A"). ParseApproxValue
// normalizes all of them to a single float.

var (
	sciRe   = regexp.MustCompile(`(?i)(\d+\.?\d*)[eE]\+?(\d+)`)
	rangeRe = regexp.MustCompile(`(?i)(\d+\.?\d*)e(\d+)\s*[-–]\s*(\d+\.?\d*)e(\d+)`)
	fewRe   = regexp.MustCompile(`(?i)e(\d+)`)
)

// ParseApproxValue converts a loosely formatted magnitude string to a float.
// The second return value is false when the string carries no usable value
// ("N/A", empty, or unparseable).
func ParseApproxValue(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return 0, false
	}

	// Speculative entries take their first magnitude token even when the
	// rest of the string looks like a range.
	if strings.Contains(value, "Speculative") {
		if m := sciRe.FindStringSubmatch(value); m != nil {
			return mantissaExp(m[1], m[2]), true
		}
		return 1e27, true
	}

	// Ranges like "1e24-1e25" or "~1e17-1e18": geometric mean.
	if m := rangeRe.FindStringSubmatch(value); m != nil {
		low := mantissaExp(m[1], m[2])
		high := mantissaExp(m[3], m[4])
		return math.Sqrt(low * high), true
	}

	if strings.Contains(value, "High compute") {
		return 1e21, true
	}

	if strings.Contains(value, "Proxy") {
		if m := sciRe.FindStringSubmatch(value); m != nil {
			return mantissaExp(m[1], m[2]), true
		}
		if strings.Contains(strings.ToLower(value), "low") {
			return 1e6, true
		}
		return 1e3, true
	}

	// "~few e23" reads as 3e23.
	if strings.Contains(strings.ToLower(value), "few") {
		if m := fewRe.FindStringSubmatch(value); m != nil {
			exp, _ := strconv.Atoi(m[1])
			return 3 * math.Pow(10, float64(exp)), true
		}
	}

	// Everything else — ">1e26", "~1e20+", "4e25 (Llama...)", "6.00E+17" —
	// reduces to the first scientific-notation token.
	if m := sciRe.FindStringSubmatch(value); m != nil {
		return mantissaExp(m[1], m[2]), true
	}

	// Plain numbers.
	if v, err := strconv.ParseFloat(strings.TrimPrefix(value, "~"), 64); err == nil {
		return v, true
	}

	return 0, false
}

func mantissaExp(mantissa, exp string) float64 {
	m, _ := strconv.ParseFloat(mantissa, 64)
	e, _ := strconv.Atoi(exp)
	return m * math.Pow(10, float64(e))
}

// ProxyCompute assigns an era-appropriate placeholder for milestones with no
// recorded compute figure, so they still plot on the log axis.
func ProxyCompute(year int) float64 {
	switch {
	case year < 1945:
		return 1e2
	case year < 1960:
		return 1e4
	case year < 1980:
		return 1e6
	case year < 2000:
		return 1e8
	case year < 2010:
		return 1e10
	default:
		return 1e12
	}
}
