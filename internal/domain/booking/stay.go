package booking

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Stay is a half-open range of calendar days [checkIn, checkOut).
// The guest leaves on checkOut, so that day is free for the next arrival.
type Stay struct {
	checkIn  time.Time
	checkOut time.Time
}

func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	in, out := toDate(checkIn), toDate(checkOut)
	if !out.After(in) {
		return Stay{}, ErrInvalidRange
	}
	return Stay{checkIn: in, checkOut: out}, nil
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp; the latter is reduced to its UTC day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return toDate(t), nil
}

func (s Stay) CheckIn() time.Time  { return s.checkIn }
func (s Stay) CheckOut() time.Time { return s.checkOut }

const secondsPerDay = 24 * 60 * 60

// Nights counts calendar days on the UTC-midnight bounds. Duration arithmetic
// saturates after ~292 years, so Unix seconds are used instead.
func (s Stay) Nights() int {
	return int((s.checkOut.Unix() - s.checkIn.Unix()) / secondsPerDay)
}

func (s Stay) Overlaps(other Stay) bool {
	return s.checkIn.Before(other.checkOut) && s.checkOut.After(other.checkIn)
}

// EndsAfter reports whether the guest is still in the listing after day.
func (s Stay) EndsAfter(day time.Time) bool {
	return s.checkOut.After(toDate(day))
}

func toDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
