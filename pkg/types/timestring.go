package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	timeLayout    = "15:04"
	MinutesPerDay = 24 * 60
)

var (
	// ErrInvalidTimeFormat is returned when a clock time is not "HH:MM" in 24-hour format.
	ErrInvalidTimeFormat = errors.New("invalid time string format")
)

// TimeString is a wall-clock time of day in "HH:MM" 24-hour format.
// It is stored as-is in text columns, so a zero value means "not set".
type TimeString string

// NewTimeString builds a TimeString from the clock part of t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses and normalises s ("9:05" becomes "09:05").
func NewTimeStringFromString(s string) (TimeString, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty value", ErrInvalidTimeFormat)
	}

	parsed, err := time.Parse(timeLayout, trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return NewTimeString(parsed), nil
}

// NewTimeStringFromMinutes converts minutes from midnight into a clock time, wrapping past midnight.
func NewTimeStringFromMinutes(minutes int) TimeString {
	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60))
}

// String implements fmt.Stringer.
func (t TimeString) String() string {
	return string(t)
}

// IsZero reports whether the time is unset.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks the "HH:MM" format.
func (t TimeString) Validate() error {
	_, err := t.Minutes()
	return err
}

// Minutes returns minutes elapsed since midnight.
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// IsBefore reports whether t is strictly earlier than other on the same clock face.
// Invalid values never compare as before.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.Minutes()
	b, errB := other.Minutes()
	if errA != nil || errB != nil {
		return false
	}
	return a < b
}

// IsAfter reports whether t is strictly later than other on the same clock face.
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}
