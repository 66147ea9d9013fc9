package dataset

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the scalar held by a Value
type Kind int

const (
	KindAbsent Kind = iota // leaf missing from the source record, or null
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "absent"
	}
}

// Value is one scalar cell of a FlatRow. The zero Value is Absent.
type Value struct {
	kind Kind
	num  float64
	text string
	flag bool
}

// Absent returns the explicit missing marker
func Absent() Value { return Value{} }

// Number wraps a numeric leaf
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Text wraps a string leaf
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Bool wraps a boolean leaf
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// Kind reports what the value holds
func (v Value) Kind() Kind { return v.kind }

// IsPresent reports whether the value is anything other than Absent
func (v Value) IsPresent() bool { return v.kind != KindAbsent }

// Float returns the numeric reading of the value. Text that parses as a number
// counts as numeric; Absent, booleans, other text and non-finite numbers
// ("NaN", "Inf") do not.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, finite(v.num)
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.text), 64)
		if err != nil {
			return 0, false
		}
		return f, finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Label returns the value as display text and whether it is present
func (v Value) Label() (string, bool) {
	if !v.IsPresent() {
		return "", false
	}
	return v.String(), true
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return "<absent>"
	}
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.text == o.text
	case KindBool:
		return v.flag == o.flag
	default:
		return true
	}
}
