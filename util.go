package fpa

import (
	"strconv"
)

// WhichSQLiteDriver reports the database/sql driver name used for result
// indexes. It depends on whether the binary was built with cgo.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}

// atof converts s the way C's atof does: the longest leading prefix that
// looks like a decimal floating point number is parsed and anything after
// it is ignored. If there is no such prefix, the result is 0.
func atof(s string) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}

	n := numericPrefix(s, true)
	if n == 0 {
		return 0
	}
	// Out of range values still carry a usable +/-Inf or 0, so the error is
	// dropped like atof would.
	v, _ := strconv.ParseFloat(s[:n], 64)
	return v
}

// atoi converts the leading integer prefix of s, returning 0 if there is
// none.
func atoi(s string) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}

	n := numericPrefix(s, false)
	if n == 0 {
		return 0
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0
	}
	return v
}

// numericPrefix returns the length of the longest prefix of s that is a
// signed decimal number. Fractions and exponents are only accepted when
// float is set.
func numericPrefix(s string, float bool) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if float && i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if float && i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		exp := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			exp++
		}
		if exp > 0 {
			i = j
		}
	}

	return i
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
