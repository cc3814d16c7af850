package timezone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidDate  = errors.New("invalid date format")
	ErrInvalidClock = errors.New("invalid time format")
)

const (
	dateLayout = "2006-01-02"

	MinutesPerDay = 24 * 60
)

// Date is a calendar day with no time and no zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func ParseDate(s string) (Date, error) {
	// Parsed in UTC only to validate and split the fields; the zone is
	// dropped on purpose.
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// DateOf returns the calendar day of t as seen in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	lt := t.In(loc)
	return Date{Year: lt.Year(), Month: lt.Month(), Day: lt.Day()}
}

func (d Date) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

func (d Date) AddDays(n int) Date {
	t := time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DaysUntil is the number of calendar days from d to o (negative when o is
// earlier).
func (d Date) DaysUntil(o Date) int {
	from := time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
	to := time.Date(o.Year, o.Month, o.Day, 12, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours()) / 24
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Clock is a time of day in minutes since local midnight.
type Clock int

// ParseClock accepts "HH:MM" and "HH:MM:SS"; seconds are truncated.
// "24:00" is accepted as end of day.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 && len(s) != 8 {
		return 0, ErrInvalidClock
	}

	parts := strings.Split(s, ":")
	fields := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, ErrInvalidClock
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, ErrInvalidClock
		}
		fields[i] = n
	}

	h, m := fields[0], fields[1]
	if h == 24 && m == 0 && (len(fields) == 2 || fields[2] == 0) {
		return MinutesPerDay, nil
	}
	if h > 23 || m > 59 {
		return 0, ErrInvalidClock
	}
	if len(fields) == 3 && fields[2] > 59 {
		return 0, ErrInvalidClock
	}
	return Clock(h*60 + m), nil
}

// ClockOf returns the minute of day of t as seen in loc.
func ClockOf(t time.Time, loc *time.Location) Clock {
	lt := t.In(loc)
	return Clock(lt.Hour()*60 + lt.Minute())
}

func (c Clock) Add(minutes int) Clock {
	return c + Clock(minutes)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Combine builds the wall-clock instant (d, c) in loc.
//
// Every place that joins a calendar day with a time of day goes through
// here. Clocks past midnight (e.g. an end of 24:00) roll into the next day.
func Combine(d Date, c Clock, loc *time.Location) time.Time {
	if loc == nil {
		loc = Location("")
	}
	return time.Date(d.Year, d.Month, d.Day, 0, int(c), 0, 0, loc)
}

// StartOfDay is Combine(d, 0, loc).
func StartOfDay(d Date, loc *time.Location) time.Time {
	return Combine(d, 0, loc)
}

// ParseDateTime parses "YYYY-MM-DD" and "HH:MM" as local wall time in loc.
func ParseDateTime(date, clock string, loc *time.Location) (Date, Clock, time.Time, error) {
	d, err := ParseDate(date)
	if err != nil {
		return Date{}, 0, time.Time{}, err
	}
	c, err := ParseClock(clock)
	if err != nil {
		return Date{}, 0, time.Time{}, err
	}
	return d, c, Combine(d, c, loc), nil
}
