package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNotInteger is returned by LooseInt.Int when the raw value is not an integer.
	ErrNotInteger = errors.New("value is not an integer")
	// ErrOutOfRange is returned for integers that do not fit in 32 bits.
	ErrOutOfRange = errors.New("value is out of range")
)

// LooseInt accepts a JSON number or a numeric string and keeps the raw token,
// so a non-numeric value can be reported as a field error instead of a
// decoding failure.
type LooseInt struct {
	raw   string
	isSet bool
}

// NewLooseInt builds a LooseInt from its textual form.
func NewLooseInt(raw string) LooseInt {
	return LooseInt{raw: raw, isSet: true}
}

// IntValue wraps an integer.
func IntValue(v int) LooseInt {
	return NewLooseInt(strconv.Itoa(v))
}

func (l *LooseInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = LooseInt{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = NewLooseInt(s)
		return nil
	}
	*l = NewLooseInt(string(data))
	return nil
}

func (l LooseInt) MarshalJSON() ([]byte, error) {
	if !l.isSet {
		return []byte("null"), nil
	}
	if v, err := l.Int(); err == nil {
		return []byte(strconv.Itoa(v)), nil
	}
	return json.Marshal(l.raw)
}

// IsSet reports whether a value (possibly invalid) was supplied.
func (l LooseInt) IsSet() bool {
	return l.isSet
}

// Int parses the value. Integral floats such as 5.0 are accepted. Values
// outside the 32-bit range are rejected, matching the INTEGER columns they
// end up in.
func (l LooseInt) Int() (int, error) {
	if !l.isSet {
		return 0, ErrNotInteger
	}
	s := strings.TrimSpace(l.raw)
	v, err := strconv.ParseInt(s, 10, 32)
	if err == nil {
		return int(v), nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrOutOfRange
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, ErrNotInteger
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, ErrOutOfRange
	}
	return int(f), nil
}
