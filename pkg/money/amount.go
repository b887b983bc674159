package money

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Amount is a decimal value that tolerates the loose serializations seen in
// upstream payloads: JSON numbers, numeric strings, non-numeric strings and
// null all decode without error. A malformed value contributes zero to any
// arithmetic but keeps its original text for display.
type Amount struct {
	raw     string
	val     float64
	valid   bool
	present bool
}

// FromFloat creates a valid Amount from a float64.
func FromFloat(v float64) Amount {
	return Amount{
		raw:     strconv.FormatFloat(v, 'f', -1, 64),
		val:     v,
		valid:   true,
		present: true,
	}
}

// Parse converts an arbitrary decoded JSON value into an Amount.
// Accepted inputs: nil, float64, int, int64, string, json.Number.
// Anything else, and any string that is not a number, yields an Amount
// whose Value is zero.
func Parse(v any) Amount {
	switch x := v.(type) {
	case nil:
		return Amount{}
	case float64:
		return FromFloat(x)
	case int:
		return FromFloat(float64(x))
	case int64:
		return FromFloat(float64(x))
	case json.Number:
		return parseString(x.String())
	case string:
		return parseString(x)
	default:
		return Amount{}
	}
}

func parseString(s string) Amount {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Amount{}
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		// Keep the text so display can render it verbatim.
		return Amount{raw: s, present: true}
	}
	return Amount{raw: s, val: f, valid: true, present: true}
}

// Value returns the numeric value, or zero when the amount is absent or
// could not be parsed. Aggregation never fails on a single bad record.
func (a Amount) Value() float64 {
	if !a.valid {
		return 0
	}
	return a.val
}

// Valid reports whether the amount carries a usable numeric value.
func (a Amount) Valid() bool {
	return a.valid
}

// Present reports whether any value (numeric or not) was supplied.
func (a Amount) Present() bool {
	return a.present
}

// Display returns the original text for present values (even non-numeric
// ones) and "-" for absent ones.
func (a Amount) Display() string {
	if !a.present {
		return "-"
	}
	return a.raw
}

// MarshalJSON emits a JSON number for valid amounts, the verbatim string
// for present-but-malformed ones, and null for absent ones.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.present {
		return []byte("null"), nil
	}
	if a.valid {
		return []byte(strconv.FormatFloat(a.val, 'f', -1, 64)), nil
	}
	return json.Marshal(a.raw)
}

// UnmarshalJSON accepts numbers, numeric strings, arbitrary strings and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = parseString(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		// Not a number and not a string: degrade to zero rather than fail.
		*a = Amount{raw: string(data), present: true}
		return nil
	}
	*a = Amount{raw: string(data), val: f, valid: true, present: true}
	return nil
}
