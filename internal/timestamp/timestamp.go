// Package timestamp parses and formats the naive local timestamps used on
// board cards, e.g. "05-01-2020 9:07pm".
package timestamp

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrMalformedTimestamp is returned when a date, clock or timestamp token does
// not follow its grammar.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

var (
	dateRegex  = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)
	clockRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})([aApP][mM])$`)
)

// Date is a calendar day without a location.
type Date struct {
	Day   int
	Month int
	Year  int
}

// Clock is a time of day in 24-hour form.
type Clock struct {
	Hour   int
	Minute int
}

// Timestamp is a naive local wall-clock value with minute precision.
type Timestamp struct {
	Date  Date
	Clock Clock
}

// ParseDate parses "DD-MM-YYYY". Calendar validity beyond the nominal field
// ranges is not checked.
func ParseDate(raw string) (Date, error) {
	m := dateRegex.FindStringSubmatch(raw)
	if m == nil {
		return Date{}, fmt.Errorf("%w: date %q", ErrMalformedTimestamp, raw)
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if day < 1 || day > 31 {
		return Date{}, fmt.Errorf("%w: day out of range in %q", ErrMalformedTimestamp, raw)
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month out of range in %q", ErrMalformedTimestamp, raw)
	}
	return Date{Day: day, Month: month, Year: year}, nil
}

// ParseClock parses "H:MMam" / "HH:MMpm" (suffix case-insensitive) into 24-hour form.
func ParseClock(raw string) (Clock, error) {
	m := clockRegex.FindStringSubmatch(raw)
	if m == nil {
		return Clock{}, fmt.Errorf("%w: time %q", ErrMalformedTimestamp, raw)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 {
		return Clock{}, fmt.Errorf("%w: hour out of range in %q", ErrMalformedTimestamp, raw)
	}
	if minute > 59 {
		return Clock{}, fmt.Errorf("%w: minute out of range in %q", ErrMalformedTimestamp, raw)
	}

	pm := strings.EqualFold(m[3], "pm")
	switch {
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// Combine joins a date and a clock.
func Combine(d Date, c Clock) Timestamp {
	return Timestamp{Date: d, Clock: c}
}

// Parse parses "DD-MM-YYYY H:MMam".
func Parse(raw string) (Timestamp, error) {
	datePart, clockPart, ok := strings.Cut(raw, " ")
	if !ok {
		return Timestamp{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
	}
	d, err := ParseDate(datePart)
	if err != nil {
		return Timestamp{}, err
	}
	c, err := ParseClock(clockPart)
	if err != nil {
		return Timestamp{}, err
	}
	return Combine(d, c), nil
}

// FromTime truncates t to a naive timestamp in t's own location.
func FromTime(t time.Time) Timestamp {
	return Timestamp{
		Date:  Date{Day: t.Day(), Month: int(t.Month()), Year: t.Year()},
		Clock: Clock{Hour: t.Hour(), Minute: t.Minute()},
	}
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b Timestamp) bool {
	return a.Date == b.Date
}

func (d Date) String() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Day, d.Month, d.Year)
}

func (c Clock) String() string {
	suffix := "am"
	if c.Hour >= 12 {
		suffix = "pm"
	}
	hour := c.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d%s", hour, c.Minute, suffix)
}

// String renders the timestamp in card form.
func (t Timestamp) String() string {
	return t.Date.String() + " " + t.Clock.String()
}

// Format is the card rendering of t.
func Format(t Timestamp) string {
	return t.String()
}

// MarshalText lets timestamps appear as card strings in JSON and YAML output.
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (t *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
