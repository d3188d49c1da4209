package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number is a lenient numeric field. Missing, null, non-numeric and
// non-finite values decode to zero; numeric strings decode to their value.
// It never returns a decoding error so one bad field cannot drop a record.
type Number float64

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	v, ok := parseNumber(data)
	if !ok {
		v = 0
	}
	*n = Number(v)
	return nil
}

// Float returns the value as float64.
func (n Number) Float() float64 { return float64(n) }

// Int truncates the value toward zero.
func (n Number) Int() int { return int(math.Trunc(float64(n))) }

// NullNumber is an optional server-supplied number. Valid is false when the
// field was absent, null or not a number.
type NullNumber struct {
	Value float64
	Valid bool
}

// Num returns a valid NullNumber holding v.
func Num(v float64) NullNumber { return NullNumber{Value: v, Valid: true} }

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullNumber) UnmarshalJSON(data []byte) error {
	v, ok := parseNumber(data)
	*n = NullNumber{Value: v, Valid: ok}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n NullNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Value, 'f', -1, 64)), nil
}

func parseNumber(data []byte) (float64, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, false
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, false
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ID accepts string or numeric identifiers and normalises them to a string.
type ID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*id = ""
			return nil
		}
		*id = ID(s)
	default:
		if v, ok := parseNumber(data); ok {
			*id = ID(strconv.FormatFloat(v, 'f', -1, 64))
		} else {
			*id = ""
		}
	}
	return nil
}

// Text is a lenient string field: non-string JSON values decode to "".
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

// Layouts the shop backend emits. The offset-less ones are wall-clock times
// in the shop's own zone and are decoded as floating.
var (
	zonedLayouts    = []string{time.RFC3339Nano}
	floatingLayouts = []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"}
	dateOnlyLayout  = "2006-01-02"
)

// floatingLayout serialises floating dates without an offset.
const floatingLayout = "2006-01-02T15:04:05.999999999"

// ParseTimestamp parses a JSON date value: an ISO-8601 string or epoch
// milliseconds. Date-only strings are read as UTC midnight and offset-less
// date-times keep their wall clock in UTC.
func ParseTimestamp(data []byte) time.Time {
	t, _ := parseTimestamp(data)
	return t
}

// parseTimestamp also reports whether the value carried no zone, in which case
// the returned time holds the wall clock in UTC.
func parseTimestamp(data []byte) (time.Time, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return time.Time{}, false
	}
	if data[0] != '"' {
		if ms, ok := parseNumber(data); ok {
			return time.UnixMilli(int64(ms)).UTC(), false
		}
		return time.Time{}, false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, false
		}
	}
	for _, layout := range floatingLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, false
	}
	return time.Time{}, false
}

// List is a lenient JSON array: elements that fail to decode are dropped and
// a non-array value decodes to an empty list.
type List[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (l *List[T]) UnmarshalJSON(data []byte) error {
	items, _, _ := DecodeList[T](data)
	*l = items
	return nil
}

// DecodeList decodes data as a JSON array of T. It reports how many elements
// were dropped and whether data was an array at all.
func DecodeList[T any](data []byte) (items []T, dropped int, isArray bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return []T{}, 0, false
	}
	items = make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			dropped++
			continue
		}
		items = append(items, v)
	}
	return items, dropped, true
}
