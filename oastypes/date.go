// Package oastypes provides small wrapper types for OpenAPI string formats
// that don't have an obvious direct Go equivalent: a calendar Date distinct
// from time.Time, and a Secret that redacts itself in logs and error output.
package oastypes

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is an OAS `format: date` value: a calendar date with no time-of-day
// or timezone component, serialized as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MarshalJSON renders the date as a JSON string in "2006-01-02" form.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a JSON string in "2006-01-02" form.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
