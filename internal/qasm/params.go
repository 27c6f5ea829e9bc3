package qasm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// piExprRegex matches pi, 2pi, 2*pi, pi/2, 3*pi/4, -pi and friends.
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// ParseParam parses one gate parameter: a plain number or a pi expression.
func ParseParam(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	m := piExprRegex.FindStringSubmatch(strings.ToLower(s))
	if m == nil {
		return 0, false
	}
	coeff := 1.0
	if m[2] != "" {
		c, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
		coeff = c
	}
	v := coeff * math.Pi
	if m[3] != "" {
		d, err := strconv.ParseFloat(m[3], 64)
		if err != nil || d == 0 {
			return 0, false
		}
		v /= d
	}
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

// piForms are the fractions written in pi notation.
var piForms = []struct {
	value   float64
	display string
}{
	{2 * math.Pi, "2*pi"},
	{math.Pi, "pi"},
	{math.Pi / 2, "pi/2"},
	{math.Pi / 3, "pi/3"},
	{math.Pi / 4, "pi/4"},
	{math.Pi / 6, "pi/6"},
	{math.Pi / 8, "pi/8"},
	{3 * math.Pi / 4, "3*pi/4"},
	{3 * math.Pi / 2, "3*pi/2"},
	{2 * math.Pi / 3, "2*pi/3"},
	{5 * math.Pi / 4, "5*pi/4"},
	{7 * math.Pi / 4, "7*pi/4"},
}

// piTolerance is how close a value must be to a pi fraction to be written
// in pi notation.
const piTolerance = 1e-12

// FormatParam renders a parameter, using pi notation for pi fractions.
func FormatParam(v float64) string {
	if v == 0 {
		return "0"
	}
	for _, pf := range piForms {
		if math.Abs(v-pf.value) < piTolerance {
			return pf.display
		}
		if math.Abs(v+pf.value) < piTolerance {
			return "-" + pf.display
		}
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
