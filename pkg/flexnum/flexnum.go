// Package flexnum decodes JSON scalars that clients send either as numbers or
// as numeric strings. Decoding never fails: callers inspect Present and Valid
// to produce their own validation messages.
package flexnum

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float is a JSON number or numeric string.
type Float struct {
	Value   float64
	Present bool // key was sent with a non-null, non-empty value
	Valid   bool // value parsed as a finite number
}

func (f *Float) UnmarshalJSON(b []byte) error {
	*f = Float{}
	s, ok := scalar(b)
	if !ok {
		return nil
	}
	f.Present = true
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value, f.Valid = v, true
	return nil
}

// Ok reports whether the value was sent and is a number.
func (f Float) Ok() bool { return f.Present && f.Valid }

// Int is a JSON integer or integral numeric string.
type Int struct {
	Value   int64
	Present bool
	Valid   bool
}

func (i *Int) UnmarshalJSON(b []byte) error {
	*i = Int{}
	s, ok := scalar(b)
	if !ok {
		return nil
	}
	i.Present = true
	if v, ok := ParseInt(s); ok {
		i.Value, i.Valid = v, true
	}
	return nil
}

func (i Int) Ok() bool { return i.Present && i.Valid }

// Bool accepts true/false, 0/1 and the strings "yes"/"no".
type Bool struct {
	Value   bool
	Present bool
	Valid   bool
}

func (v *Bool) UnmarshalJSON(b []byte) error {
	*v = Bool{}
	s, ok := scalar(b)
	if !ok {
		return nil
	}
	v.Present = true
	switch strings.ToLower(s) {
	case "true", "1", "yes", "y":
		v.Value, v.Valid = true, true
	case "false", "0", "no", "n":
		v.Value, v.Valid = false, true
	}
	return nil
}

func (v Bool) Ok() bool { return v.Present && v.Valid }

// Or returns the decoded value, or def when it was not sent or not valid.
func (v Bool) Or(def bool) bool {
	if v.Ok() {
		return v.Value
	}
	return def
}

// ParseInt parses an integral value, accepting "12" and "12.0".
func ParseInt(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// scalar extracts the textual form of a JSON number, string or bool. Null and
// blank strings report ok=false; objects and arrays report ok=true with an
// unparsable value.
func scalar(b []byte) (string, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", true
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", false
		}
		return s, true
	case '{', '[':
		return "", true
	}
	return string(b), true
}
