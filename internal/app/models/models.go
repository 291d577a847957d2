// Package models holds the college ERP domain entities.
package models

import (
	"strings"
	"time"
)

// DateLayout is the wire and form layout for calendar dates
const DateLayout = "2006-01-02"

// Day is a teaching weekday
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
)

// Days lists the teaching week in display order
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// PeriodsPerDay is the number of teaching periods in a day
const PeriodsPerDay = 8

// PeriodLabels are the clock ranges shown for periods 1..8
var PeriodLabels = [PeriodsPerDay]string{
	"7:30 - 8:30",
	"8:30 - 9:30",
	"9:30 - 10:30",
	"11:00 - 11:50",
	"11:50 - 12:40",
	"12:40 - 1:30",
	"2:30 - 3:30",
	"3:30 - 4:30",
}

// ParseDay accepts a weekday name in any case
func ParseDay(s string) (Day, bool) {
	for _, d := range Days {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, true
		}
	}
	return "", false
}

// Index returns the 0-based position of d in Days, or -1
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// ValidPeriod reports whether p is within 1..PeriodsPerDay
func ValidPeriod(p int) bool {
	return p >= 1 && p <= PeriodsPerDay
}

// ParseDate parses a DateLayout string into a UTC midnight time
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// TruncateDate drops the clock part of t, keeping the calendar date in UTC
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
