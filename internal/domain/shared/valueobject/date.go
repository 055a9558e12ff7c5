package valueobject

import (
	"database/sql/driver"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component, normalized to UTC.
// Due dates, effective dates and expiration dates are dates, not instants;
// comparing them as instants invites timezone off-by-one bugs.
type Date struct {
	t time.Time
}

// NewDate creates a Date from year, month and day
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its UTC calendar date
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// ParseDate parses a date in yyyy-mm-dd form
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Year returns the year
func (d Date) Year() int { return d.t.Year() }

// Month returns the month
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month
func (d Date) Day() int { return d.t.Day() }

// IsZero returns true for the zero date
func (d Date) IsZero() bool { return d.t.IsZero() }

// Before returns true if d is strictly before other
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }

// After returns true if d is strictly after other
func (d Date) After(other Date) bool { return d.t.After(other.t) }

// Equal returns true if both dates are the same calendar day
func (d Date) Equal(other Date) bool { return d.t.Equal(other.t) }

// BeforeOrEqual returns true if d is on or before other
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }

// AfterOrEqual returns true if d is on or after other
func (d Date) AfterOrEqual(other Date) bool { return !d.Before(other) }

// AddDays returns the date n days later (or earlier for negative n)
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// AddMonths returns the date n months later
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }

// AddYears returns the date n years later
func (d Date) AddYears(n int) Date { return Date{t: d.t.AddDate(n, 0, 0)} }

// DayNumber returns the number of whole days since the Unix epoch
func (d Date) DayNumber() int {
	return int(d.t.Unix() / 86400)
}

// DaysUntil returns the whole days from d to other (negative if other is earlier)
func (d Date) DaysUntil(other Date) int {
	return other.DayNumber() - d.DayNumber()
}

// Time returns the date as a UTC midnight time.Time
func (d Date) Time() time.Time { return d.t }

// String returns the date in yyyy-mm-dd form
func (d Date) String() string { return d.t.Format(dateLayout) }

// MarshalJSON encodes the date as "yyyy-mm-dd"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "yyyy-mm-dd" date
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date JSON: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for database storage
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.t, nil
}

// Scan implements sql.Scanner for database retrieval
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		*d = Date{}
		return nil
	}
	switch v := value.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("failed to scan Date: unsupported type %T", value)
	}
}
