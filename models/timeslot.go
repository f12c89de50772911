package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TimeSlot is one of the fixed seating times offered each evening.
type TimeSlot string

const (
	Slot1800 TimeSlot = "18:00"
	Slot1900 TimeSlot = "19:00"
	Slot2000 TimeSlot = "20:00"
	Slot2100 TimeSlot = "21:00"
	Slot2200 TimeSlot = "22:00"
)

// TimeSlots lists the slots in serving order.
var TimeSlots = []TimeSlot{Slot1800, Slot1900, Slot2000, Slot2100, Slot2200}

// DateLayout is the wire format of a reservation date.
const DateLayout = "2006-01-02"

var (
	ErrUnknownTimeSlot = errors.New("unknown time slot")
	ErrInvalidDate     = errors.New("invalid reservation date")
)

// ParseTimeSlot accepts only the literals in TimeSlots.
func ParseTimeSlot(s string) (TimeSlot, error) {
	s = strings.TrimSpace(s)
	for _, ts := range TimeSlots {
		if string(ts) == s {
			return ts, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTimeSlot, s)
}

// Minutes returns the slot as minutes after midnight.
func (ts TimeSlot) Minutes() int {
	t, err := time.Parse("15:04", string(ts))
	if err != nil {
		return -1
	}
	return t.Hour()*60 + t.Minute()
}

// ParseDate parses YYYY-MM-DD into a calendar date (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DateOf drops the time-of-day of t as seen in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
