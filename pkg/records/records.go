// Package records defines the record type passed between pipeline stages.
//
// A Record maps a normalized column name to a typed cell value. The value set
// is deliberately small: string, time.Time (calendar date, midnight UTC),
// float64, int, or nil for missing/unparseable cells. Stages hand records off
// through persisted CSV artifacts, so everything here must survive a
// render-to-string / re-parse round trip.
package records

import "time"

// Record is a single row keyed by normalized column name.
type Record map[string]any

// String returns the string value for key, or "" and false when the value is
// absent, nil, or not a string.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Date returns the time.Time value for key, or a zero time and false.
func (r Record) Date(key string) (time.Time, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}

// Float returns the float64 value for key, or 0 and false.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// Empty reports whether the value for key is missing, nil, or an empty string.
func (r Record) Empty(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	s, isStr := v.(string)
	return isStr && s == ""
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
