package types

import (
	"fmt"
	"strings"
	"time"
)

// Accepted layouts for slot time labels. Clinic schedules are configured with
// 12-hour labels ("10:30 AM"); 24-hour input is tolerated for compatibility.
var timeLayouts = []string{
	"3:04 PM",
	"03:04 PM",
	"15:04",
}

// TimeString is a clock-time-of-day label, e.g. "10:30 AM".
// The label itself is the canonical key for a slot: two labels match only if
// they are string-equal. Parsing is used for validation and ordering, never to
// rewrite the label.
type TimeString string

// NewTimeString formats a time.Time as a 12-hour clock label.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format("3:04 PM"))
}

// NewTimeStringFromString validates and returns a TimeString from raw input.
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(strings.TrimSpace(s))
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// String returns the label as given.
func (t TimeString) String() string {
	return string(t)
}

// IsZero reports whether the label is empty.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks that the label parses as a clock time.
func (t TimeString) Validate() error {
	_, err := t.parse()
	return err
}

// MinutesOfDay returns the label as minutes since midnight.
func (t TimeString) MinutesOfDay() (int, error) {
	parsed, err := t.parse()
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// IsBefore compares two labels by actual clock time.
// Unparseable labels sort last so that bad configuration is visible, not hidden.
func (t TimeString) IsBefore(other TimeString) bool {
	a, errA := t.MinutesOfDay()
	b, errB := other.MinutesOfDay()
	if errA != nil {
		return false
	}
	if errB != nil {
		return true
	}
	return a < b
}

// IsAfter compares two labels by actual clock time.
func (t TimeString) IsAfter(other TimeString) bool {
	return other.IsBefore(t)
}

// AddMinutes returns a new label shifted forward by the given minutes,
// formatted in the 12-hour style.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	parsed, err := t.parse()
	if err != nil {
		return "", err
	}
	return NewTimeString(parsed.Add(time.Duration(minutes) * time.Minute)), nil
}

func (t TimeString) parse() (time.Time, error) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time string format: %q", s)
}
