package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/aneurisk/internal/common"
)

// Kind is the scalar type held by a column.
type Kind int

// Column kinds.
const (
	KindString Kind = iota
	KindInt
	KindFloat
)

// String returns the kind name used in config and error messages.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// missingTokens are the spellings treated as an absent cell when parsing text.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// Value is a single cell. The zero Value is a missing string.
type Value struct {
	str   string
	num   float64
	kind  Kind
	valid bool
}

// Int returns a present int cell.
func Int(v int) Value {
	return Value{kind: KindInt, num: float64(v), valid: true}
}

// Float returns a float cell. NaN is stored as missing.
func Float(v float64) Value {
	if math.IsNaN(v) {
		return Missing(KindFloat)
	}
	return Value{kind: KindFloat, num: v, valid: true}
}

// String returns a present string cell.
func String(s string) Value {
	return Value{kind: KindString, str: s, valid: true}
}

// Missing returns an absent cell of the given kind.
func Missing(kind Kind) Value {
	return Value{kind: kind}
}

// Kind reports the cell's kind.
func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the cell is absent.
func (v Value) IsMissing() bool { return !v.valid }

// AsFloat returns numeric cells as float64.
func (v Value) AsFloat() (float64, bool) {
	if !v.valid || v.kind == KindString {
		return 0, false
	}
	return v.num, true
}

// AsInt returns int cells.
func (v Value) AsInt() (int, bool) {
	if !v.valid || v.kind != KindInt {
		return 0, false
	}
	return int(v.num), true
}

// AsString returns string cells.
func (v Value) AsString() (string, bool) {
	if !v.valid || v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// Text formats the cell the way it is written to CSV. Missing cells are empty.
func (v Value) Text() string {
	if !v.valid {
		return ""
	}
	switch v.kind {
	case KindInt:
		return strconv.Itoa(int(v.num))
	case KindFloat:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return v.str
	}
}

// Interface returns the cell as a plain Go value, nil when missing.
func (v Value) Interface() any {
	if !v.valid {
		return nil
	}
	switch v.kind {
	case KindInt:
		return int(v.num)
	case KindFloat:
		return v.num
	default:
		return v.str
	}
}

// Equal compares kind, presence and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind || v.valid != o.valid {
		return false
	}
	if !v.valid {
		return true
	}
	if v.kind == KindString {
		return v.str == o.str
	}
	return v.num == o.num
}

// IsMissingText reports whether text spells an absent value.
func IsMissingText(text string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// Parse converts text into a cell of the given kind.
func Parse(kind Kind, text string) (Value, error) {
	if IsMissingText(text) {
		return Missing(kind), nil
	}
	text = strings.TrimSpace(text)

	switch kind {
	case KindInt:
		if n, err := strconv.Atoi(text); err == nil {
			return Int(n), nil
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("%w: %q is not an integer", common.ErrTypeMismatch, text)
		}
		if err := finite(f, text); err != nil {
			return Value{}, err
		}
		// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
		if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
			return Value{}, fmt.Errorf("%w: %q does not fit an integer", common.ErrValueOutOfRange, text)
		}
		if f != math.Trunc(f) {
			return Value{}, fmt.Errorf("%w: %q is not an integer", common.ErrTypeMismatch, text)
		}
		return Int(int(f)), nil
	case KindFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Value{}, fmt.Errorf("%w: %q is not a number", common.ErrTypeMismatch, text)
		}
		if err := finite(f, text); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return String(text), nil
	}
}

// finite rejects infinities and NaN, including overflowed literals such as 1e400.
func finite(f float64, text string) error {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("%w: %q is not a finite number", common.ErrValueOutOfRange, text)
	}
	return nil
}

// InferKind picks the narrowest kind that parses every present value.
func InferKind(values []string) Kind {
	kind := KindInt
	seen := false
	for _, text := range values {
		if IsMissingText(text) {
			continue
		}
		seen = true
		if kind == KindInt {
			if _, err := Parse(KindInt, text); err == nil {
				continue
			}
			kind = KindFloat
		}
		if _, err := Parse(KindFloat, text); err != nil {
			return KindString
		}
	}
	if !seen {
		return KindString
	}
	return kind
}
