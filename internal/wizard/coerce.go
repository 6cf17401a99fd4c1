package wizard

import (
	"time"
)

// DateLayout is the wire format for date-only fields.
const DateLayout = "2006-01-02"

// AsString coerces a patch value to a string. Non-strings become "".
func AsString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// AsBool coerces a patch value to a bool.
func AsBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

// AsFloat coerces a patch value to a float64, accepting the numeric types
// JSON decoding and form handling produce.
func AsFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// AsInt coerces a patch value to an int.
func AsInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// AsDate coerces a patch value to a date-or-absent. Accepts time.Time,
// *time.Time, and DateLayout strings; anything else (including "") is
// absent.
func AsDate(v interface{}) *time.Time {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return nil
		}
		t := d
		return &t
	case *time.Time:
		if d == nil || d.IsZero() {
			return nil
		}
		t := *d
		return &t
	case string:
		if d == "" {
			return nil
		}
		if t, err := time.Parse(DateLayout, d); err == nil {
			return &t
		}
	}
	return nil
}

// FormatDate renders a date-or-absent in the wire format.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}
