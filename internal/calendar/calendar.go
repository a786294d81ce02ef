// Package calendar converts Buddhist Era dates into the Gregorian dates the
// service stores and returns.
package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

const (
	// BuddhistEraOffset is the number of years the Buddhist Era runs ahead of
	// the Gregorian calendar.
	BuddhistEraOffset = 543

	// MinYear is the last Gregorian year that is rejected; accepted dates
	// start in 1001 AD.
	MinYear = 1000

	isoLayout = "2006-01-02"
)

// ErrInvalidDate is returned for dates that are malformed, out of range or
// do not exist in the calendar.
var ErrInvalidDate = errors.New("invalid date")

var (
	ErrMalformed       = fmt.Errorf("%w: expected yyyy-MM-dd", ErrInvalidDate)
	ErrYearTooEarly    = fmt.Errorf("%w: year must be after %d AD", ErrInvalidDate, MinYear)
	ErrYearInFuture    = fmt.Errorf("%w: year is in the future", ErrInvalidDate)
	ErrNotCalendarDate = fmt.Errorf("%w: no such day", ErrInvalidDate)
)

// Date is a Gregorian calendar day without time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// FromBuddhistEra parses a yyyy-MM-dd string whose year is in the Buddhist
// Era and returns the matching Gregorian date. The year must land in
// (MinYear, today.Year()], and the month and day are checked against the
// Gregorian year so leap days follow AD rules.
func FromBuddhistEra(s string, today time.Time) (Date, error) {
	year, month, day, ok := splitISO(s)
	if !ok {
		return Date{}, ErrMalformed
	}

	year -= BuddhistEraOffset
	if year <= MinYear {
		return Date{}, ErrYearTooEarly
	}
	if year > today.Year() {
		return Date{}, ErrYearInFuture
	}

	d, ok := newDate(year, month, day)
	if !ok {
		return Date{}, ErrNotCalendarDate
	}
	return d, nil
}

// ParseISO parses a Gregorian yyyy-MM-dd string. No range checks apply; it
// is meant for values that were validated before they were stored.
func ParseISO(s string) (Date, error) {
	year, month, day, ok := splitISO(s)
	if !ok {
		return Date{}, ErrMalformed
	}
	d, ok := newDate(year, month, day)
	if !ok {
		return Date{}, ErrNotCalendarDate
	}
	return d, nil
}

// FromTime takes the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// BuddhistEra formats the day with a Buddhist Era year.
func (d Date) BuddhistEra() string {
	return Date{Year: d.Year + BuddhistEraOffset, Month: d.Month, Day: d.Day}.String()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseISO(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func splitISO(s string) (year int, month time.Month, day int, ok bool) {
	if len(s) != len(isoLayout) || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, false
	}
	for i, c := range []byte(s) {
		if i == 4 || i == 7 {
			continue
		}
		if c < '0' || c > '9' {
			return 0, 0, 0, false
		}
	}
	year, _ = strconv.Atoi(s[0:4])
	m, _ := strconv.Atoi(s[5:7])
	day, _ = strconv.Atoi(s[8:10])
	return year, time.Month(m), day, true
}

func newDate(year int, month time.Month, day int) (Date, bool) {
	if month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}
