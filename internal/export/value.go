// Package export renders records as literal-value rows of a bulk INSERT.
package export

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnsupportedValue is returned for values or columns that have no SQL literal form.
var ErrUnsupportedValue = errors.New("unsupported value for SQL export")

// Value is an exportable literal. The set of implementations is closed.
type Value interface {
	Literal() (string, error)
	sealed()
}

// Text is a single-quoted string literal, NULL when absent.
type Text struct {
	s     string
	valid bool
}

// String returns a present text value.
func String(s string) Text { return Text{s: s, valid: true} }

// NullableString returns NULL for a nil pointer.
func NullableString(s *string) Text {
	if s == nil {
		return Text{}
	}
	return String(*s)
}

func (t Text) Literal() (string, error) {
	if !t.valid {
		return "NULL", nil
	}
	return "'" + strings.ReplaceAll(t.s, "'", "''") + "'", nil
}

func (Text) sealed() {}

// Bool is TRUE or FALSE.
type Bool bool

func (b Bool) Literal() (string, error) {
	if b {
		return "TRUE", nil
	}
	return "FALSE", nil
}

func (Bool) sealed() {}

// Number is an unquoted integer or float literal, NULL when absent.
type Number struct {
	i       int64
	f       float64
	isFloat bool
	valid   bool
}

// Int returns an integer number.
func Int(i int64) Number { return Number{i: i, valid: true} }

// Float returns a float number.
func Float(f float64) Number { return Number{f: f, isFloat: true, valid: true} }

// NullableFloat returns NULL for a nil pointer.
func NullableFloat(f *float64) Number {
	if f == nil {
		return Number{}
	}
	return Float(*f)
}

func (n Number) Literal() (string, error) {
	if !n.valid {
		return "NULL", nil
	}
	if !n.isFloat {
		return strconv.FormatInt(n.i, 10), nil
	}
	if math.IsNaN(n.f) || math.IsInf(n.f, 0) {
		return "", fmt.Errorf("%w: non-finite number %v", ErrUnsupportedValue, n.f)
	}
	return formatFloat(n.f), nil
}

func (Number) sealed() {}

// Null is an absent value of any kind.
type Null struct{}

func (Null) Literal() (string, error) { return "NULL", nil }

func (Null) sealed() {}

// formatFloat uses the shortest round-trip digits, positional notation for
// 1e-4 <= |f| < 1e16 with a trailing ".0" on integral values, and exponent
// notation outside that range.
func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
