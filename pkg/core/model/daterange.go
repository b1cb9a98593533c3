// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"log/slog"
	"regexp"
	"time"
)

// DateLayout is the textual layout of all calendar dates which are
// exchanged with clients or persisted as text, i.e., DD/MM/YYYY.
const DateLayout = "02/01/2006"

// MinYear is the earliest year which ParseDate accepts. Years before
// it cannot be a birth or reservation date and year 1 would collide
// with the zero Date.
const MinYear = 1900

const day = 24 * time.Hour

var datePattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// ErrInvalidDate indicates that a date string does not follow the
// DD/MM/YYYY layout, does not represent a real calendar date (e.g.,
// 30/02/2022), or falls before MinYear.
var ErrInvalidDate = errors.New("date must be a valid DD/MM/YYYY date")

// ErrInvalidRange indicates that a range starts after its end.
var ErrInvalidRange = errors.New("start date is after end date")

// Date is a calendar date with a day granularity. It is kept as the
// midnight instant of that day in UTC, so subtracting two dates always
// yields a whole number of days regardless of the local time zone.
// The zero Date is not a valid reservation date.
type Date struct {
	t time.Time
}

// NewDate returns the Date of the given year, month, and day. Values
// out of their usual ranges are normalized as time.Date does.
func NewDate(year int, month time.Month, d int) Date {
	return Date{t: time.Date(year, month, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date, as observed in t location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses s as a DD/MM/YYYY date. The pattern, the calendar
// validity, and the MinYear floor are checked and ErrInvalidDate is
// returned on any mismatch. A parsed Date is never zero.
func ParseDate(s string) (Date, error) {
	if !datePattern.MatchString(s) {
		return Date{}, ErrInvalidDate
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil || t.Year() < MinYear {
		return Date{}, ErrInvalidDate
	}
	return Date{t: t}, nil
}

// MustParseDate is like ParseDate but panics on invalid inputs.
// It is meant for constants in tests and seed data.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Time returns the midnight UTC instant of d.
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Compare returns -1, 0, or +1 if d is before, equal to, or after o.
func (d Date) Compare(o Date) int {
	return d.t.Compare(o.t)
}

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// YearsSince returns the number of full years which have passed from
// the o date until the d date, e.g., the age of a person who was born
// at o, as observed at d.
func (d Date) YearsSince(o Date) int {
	years := d.t.Year() - o.t.Year()
	if d.t.Month() < o.t.Month() ||
		(d.t.Month() == o.t.Month() && d.t.Day() < o.t.Day()) {
		years--
	}
	return years
}

// String formats d using the DateLayout. The zero Date, which no
// parsed date can be, is formatted as an empty string.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler, so dates are encoded
// as DD/MM/YYYY strings in JSON documents.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseDate.
func (d *Date) UnmarshalText(text []byte) error {
	dd, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = dd
	return nil
}

// DaysBetween returns the number of days from start to end, rounding
// any partial day upwards. Equal dates give zero. Callers must ensure
// that start is not after end.
func DaysBetween(start, end Date) int {
	diff := end.t.Sub(start.t)
	days := diff / day
	if diff%day > 0 {
		days++
	}
	return int(days)
}

// Overlaps reports whether the closed intervals [aStart, aEnd] and
// [bStart, bEnd] share at least one day. Intervals which only touch
// at a boundary day overlap too.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.Compare(bEnd) <= 0 && bStart.Compare(aEnd) <= 0
}

// DateRange is a closed interval of calendar dates.
type DateRange struct {
	Start Date
	End   Date
}

// NewDateRange returns a DateRange after ensuring that start is not
// after end. Otherwise, ErrInvalidRange will be returned.
func NewDateRange(start, end Date) (DateRange, error) {
	if start.After(end) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{Start: start, End: end}, nil
}

// ParseDateRange parses both dates and builds a DateRange. Errors wrap
// ErrInvalidDate or are equal to ErrInvalidRange.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, &DateFieldError{Field: "start_date", Err: err}
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, &DateFieldError{Field: "end_date", Err: err}
	}
	return NewDateRange(s, e)
}

// Days returns the billable days of r as computed by DaysBetween.
func (r DateRange) Days() int {
	return DaysBetween(r.Start, r.End)
}

// Overlaps reports whether r and o share at least one day.
func (r DateRange) Overlaps(o DateRange) bool {
	return Overlaps(r.Start, r.End, o.Start, o.End)
}

// LogValue implements slog.LogValuer.
func (r DateRange) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("start", r.Start.String()),
		slog.String("end", r.End.String()),
	)
}

// DateFieldError reports which field of a request carried an invalid
// date. It unwraps to ErrInvalidDate.
type DateFieldError struct {
	Field string
	Err   error
}

// Error implements the error interface.
func (e *DateFieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

// Unwrap returns the wrapped date parsing error.
func (e *DateFieldError) Unwrap() error {
	return e.Err
}
