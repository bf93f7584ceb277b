// Package eval walks a parsed expression tree against a flat record of
// named values and produces a single scalar result. Evaluation is a pure
// function of (node, record): it never mutates either, holds no state
// between calls, and a parsed tree may be evaluated concurrently against
// many records without synchronization.
package eval

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sqldom/sqldom/pkg/errors"
)

// Kind tags the dynamic type of a Value
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindDate
	KindBytes
)

var kindNames = map[Kind]string{
	KindNull:  "null",
	KindInt:   "integer",
	KindFloat: "real",
	KindText:  "text",
	KindBool:  "boolean",
	KindDate:  "date",
	KindBytes: "blob",
}

func (k Kind) String() string { return kindNames[k] }

// Value is a tagged scalar: Integer | Float | Text | Bool | Date | Bytes |
// Null. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	t    time.Time
	raw  []byte
}

func Null() Value            { return Value{} }
func Int(i int64) Value      { return Value{kind: KindInt, i: i} }
func Float(f float64) Value  { return Value{kind: KindFloat, f: f} }
func Text(s string) Value    { return Value{kind: KindText, s: s} }
func Bool(b bool) Value      { return Value{kind: KindBool, b: b} }
func Date(t time.Time) Value { return Value{kind: KindDate, t: t} }
func Bytes(raw []byte) Value { return Value{kind: KindBytes, raw: raw} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Accepted date layouts, tried in order
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// AsInt coerces the value to an integer. Numeric text is parsed; floats
// truncate toward zero; booleans map to 0/1; dates yield Unix seconds.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindFloat:
		return int64(v.f), nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindText:
		if i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return int64(f), nil
		}
		return 0, errors.Newf(ErrCoercion, "cannot coerce %q to integer", v.s)
	case KindDate:
		return v.t.Unix(), nil
	}
	return 0, errors.Newf(ErrCoercion, "cannot coerce %s to integer", v.kind)
}

// AsFloat coerces the value to a float
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindInt:
		return float64(v.i), nil
	case KindFloat:
		return v.f, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case KindText:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return f, nil
		}
		return 0, errors.Newf(ErrCoercion, "cannot coerce %q to float", v.s)
	case KindDate:
		return float64(v.t.Unix()), nil
	}
	return 0, errors.Newf(ErrCoercion, "cannot coerce %s to float", v.kind)
}

// AsText renders the value as text. The coercion is total; Null renders as
// the empty string. Floats format through decimal so that values like 0.1
// round-trip without binary-float noise.
func (v Value) AsText() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return decimal.NewFromFloat(v.f).String()
	case KindText:
		return v.s
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindDate:
		return v.t.Format("2006-01-02 15:04:05")
	case KindBytes:
		return string(v.raw)
	}
	return ""
}

// AsBool coerces the value to a boolean: numbers are true when non-zero,
// text is parsed as a number or as true/false
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case KindBool:
		return v.b, nil
	case KindInt:
		return v.i != 0, nil
	case KindFloat:
		return v.f != 0, nil
	case KindText:
		switch strings.ToLower(strings.TrimSpace(v.s)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64); err == nil {
			return f != 0, nil
		}
		return false, errors.Newf(ErrCoercion, "cannot coerce %q to boolean", v.s)
	}
	return false, errors.Newf(ErrCoercion, "cannot coerce %s to boolean", v.kind)
}

// AsTime coerces the value to a date: dates pass through, text is parsed
// against the accepted layouts, numbers are Unix seconds
func (v Value) AsTime() (time.Time, error) {
	switch v.kind {
	case KindDate:
		return v.t, nil
	case KindText:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, v.s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, errors.Newf(ErrCoercion, "cannot coerce %q to date", v.s)
	case KindInt:
		return time.Unix(v.i, 0).UTC(), nil
	case KindFloat:
		return time.Unix(int64(v.f), 0).UTC(), nil
	}
	return time.Time{}, errors.Newf(ErrCoercion, "cannot coerce %s to date", v.kind)
}

func (v Value) isNumeric() bool {
	switch v.kind {
	case KindInt, KindFloat, KindBool:
		return true
	case KindText:
		_, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		return err == nil
	}
	return false
}

// isIntegral reports whether the value coerces to integer without loss,
// which decides integer vs. float arithmetic
func (v Value) isIntegral() bool {
	switch v.kind {
	case KindInt, KindBool:
		return true
	case KindText:
		_, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		return err == nil
	}
	return false
}

// Compare orders two non-null values with SQL's permissive coercion:
// numeric operands (including numeric text) compare numerically, dates by
// instant, bytes bytewise, anything else lexically as text.
func (v Value) Compare(other Value) (int, error) {
	switch {
	case v.isNumeric() && other.isNumeric():
		a, err := v.AsFloat()
		if err != nil {
			return 0, err
		}
		b, err := other.AsFloat()
		if err != nil {
			return 0, err
		}
		switch {
		case a < b:
			return -1, nil
		case a > b:
			return 1, nil
		}
		return 0, nil

	case v.kind == KindDate || other.kind == KindDate:
		a, err := v.AsTime()
		if err != nil {
			return 0, err
		}
		b, err := other.AsTime()
		if err != nil {
			return 0, err
		}
		switch {
		case a.Before(b):
			return -1, nil
		case a.After(b):
			return 1, nil
		}
		return 0, nil

	case v.kind == KindBytes && other.kind == KindBytes:
		return bytes.Compare(v.raw, other.raw), nil
	}

	return strings.Compare(v.AsText(), other.AsText()), nil
}

// Equal is Compare == 0 with errors collapsed to false
func (v Value) Equal(other Value) bool {
	if v.IsNull() || other.IsNull() {
		return false
	}
	cmp, err := v.Compare(other)
	return err == nil && cmp == 0
}

// String implements fmt.Stringer for logs and test output
func (v Value) String() string {
	if v.kind == KindNull {
		return "NULL"
	}
	if v.kind == KindText {
		return fmt.Sprintf("%q", v.s)
	}
	return v.AsText()
}
