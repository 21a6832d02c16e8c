package triangulate

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrIncomparableField marks a field pair the pipeline itself cannot compare
// (malformed or non-finite values). It is always recovered locally: the field
// is excluded from scoring and the listing is not penalized for it.
var ErrIncomparableField = errors.New("field values are not comparable")

func withinAbs(a, b, tolerance float64) (bool, error) {
	if !finite(a, b, tolerance) {
		return false, ErrIncomparableField
	}
	return math.Abs(a-b) <= tolerance, nil
}

// withinPct compares relative to the corroborating value b. A zero b only
// matches a zero a.
func withinPct(a, b, pct float64) (bool, error) {
	if !finite(a, b, pct) {
		return false, ErrIncomparableField
	}
	if b == 0 {
		return a == 0, nil
	}
	return math.Abs(a-b)/math.Abs(b) <= pct, nil
}

// textEqual compares strings case- and whitespace-insensitively, with common
// address punctuation stripped.
func textEqual(a, b string) (bool, error) {
	na, nb := normalizeText(a), normalizeText(b)
	if na == "" || nb == "" {
		return false, ErrIncomparableField
	}
	return na == nb, nil
}

func normalizeText(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(",", " ", ".", " ", "#", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCount(v int) string {
	return strconv.Itoa(v)
}
