package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// MonthlyEntries is the length of a monthly projection series.
const MonthlyEntries = 12

// bracketedNumbersPattern matches a bracketed sequence of numbers,
// e.g. [1.5, 2.3, 3.1].
var bracketedNumbersPattern = regexp.MustCompile(`\[\s*-?\d+(?:\.\d+)?(?:\s*,\s*-?\d+(?:\.\d+)?)*\s*\]`)

// MonthlySeries extracts a 12-entry numeric series from raw model text.
// Fence handling is skipped in favor of a direct search for a bracketed
// number list anywhere in the text. When no usable series is found, the
// fixed placeholder series is returned so downstream rendering never
// blocks on a malformed response.
func MonthlySeries(raw string) []float64 {
	match := bracketedNumbersPattern.FindString(raw)
	if match == "" {
		return DefaultMonthlySeries()
	}

	inner := strings.Trim(match, "[]")
	parts := strings.Split(inner, ",")
	if len(parts) < MonthlyEntries {
		return DefaultMonthlySeries()
	}

	values := make([]float64, 0, MonthlyEntries)
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return DefaultMonthlySeries()
		}
		values = append(values, v)
		if len(values) == MonthlyEntries {
			break
		}
	}
	return values
}

// DefaultMonthlySeries returns the fixed placeholder series used when a
// response contains no parseable numeric array. The ascending ramp is a
// deliberate stand-in, not an estimate.
func DefaultMonthlySeries() []float64 {
	series := make([]float64, MonthlyEntries)
	for i := range series {
		series[i] = 0.5 * float64(i+1)
	}
	return series
}
