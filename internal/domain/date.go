package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DateLayout is the calendar date wire format used on all service
// contracts.
const DateLayout = "2006-01-02"

// Date is a calendar date serialized as ISO-8601 (YYYY-MM-DD).
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string; null leaves the
// zero value.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// String renders the date in wire format.
func (d Date) String() string { return d.Format(DateLayout) }

// IsURL reports whether s parses as an absolute URL with both scheme
// and host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
