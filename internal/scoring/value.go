package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	kindNull valueKind = iota
	kindString
	kindNumber
	kindBool
)

// Value is a loosely-typed scalar as it arrives from lead intake forms and
// imports: null, string, number or bool. Truthiness follows the rules the
// CRM front-end applies to the same record, so "" / 0 / false / null are
// all treated as absent by presence checks.
type Value struct {
	kind valueKind
	s    string
	n    float64
	b    bool
}

// String builds a string Value.
func String(s string) Value { return Value{kind: kindString, s: s} }

// Number builds a numeric Value.
func Number(n float64) Value { return Value{kind: kindNumber, n: n} }

// Bool builds a boolean Value.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// IsSet reports whether the value is non-null.
func (v Value) IsSet() bool { return v.kind != kindNull }

// Truthy reports whether the value would pass a plain `if (field)` check.
func (v Value) Truthy() bool {
	switch v.kind {
	case kindString:
		return v.s != ""
	case kindNumber:
		return v.n != 0 && !math.IsNaN(v.n)
	case kindBool:
		return v.b
	default:
		return false
	}
}

// IsTrue reports whether the value is the boolean true (strict comparison).
func (v Value) IsTrue() bool { return v.kind == kindBool && v.b }

// Number returns the numeric payload when the value is a number.
func (v Value) Number() (float64, bool) {
	if v.kind != kindNumber {
		return 0, false
	}
	return v.n, true
}

// Text renders the value as a string; null renders as "".
func (v Value) Text() string {
	switch v.kind {
	case kindString:
		return v.s
	case kindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case kindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// lower is Text lower-cased and trimmed.
func (v Value) lower() string {
	return strings.ToLower(strings.TrimSpace(v.Text()))
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case kindString:
		return json.Marshal(v.s)
	case kindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.n)
	case kindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. Objects and arrays are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = String(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return err
		}
		*v = Bool(b)
	case '{', '[':
		return fmt.Errorf("scoring: unsupported value %s", string(trimmed))
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*v = Number(n)
	}
	return nil
}

// firstSet returns the first non-null value, mirroring `a ?? b ?? c`.
func firstSet(values ...Value) Value {
	for _, v := range values {
		if v.IsSet() {
			return v
		}
	}
	return Value{}
}

// anyTruthy mirrors `a || b || c` used as a presence check.
func anyTruthy(values ...Value) bool {
	for _, v := range values {
		if v.Truthy() {
			return true
		}
	}
	return false
}
