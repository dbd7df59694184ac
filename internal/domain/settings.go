package domain

import (
	"fmt"
	"time"
)

// DateSelectionMode is one of the date pickers offered to patients.
type DateSelectionMode string

const (
	ModeToday    DateSelectionMode = "today"
	ModeTomorrow DateSelectionMode = "tomorrow"
	ModeWeek     DateSelectionMode = "week"
	ModeCalendar DateSelectionMode = "calendar"
)

// DateSelectionModes lists the modes in display order.
var DateSelectionModes = []DateSelectionMode{ModeToday, ModeTomorrow, ModeWeek, ModeCalendar}

// IsValid reports whether the mode is known.
func (m DateSelectionMode) IsValid() bool {
	switch m {
	case ModeToday, ModeTomorrow, ModeWeek, ModeCalendar:
		return true
	}
	return false
}

// LocalizedLabel carries the English and Gujarati display strings for an
// option. Content is persisted configuration, not translation logic.
type LocalizedLabel struct {
	En string
	Gu string
}

// DateSelectionOption configures one date picker mode.
type DateSelectionOption struct {
	Mode    DateSelectionMode
	Enabled bool
	Label   LocalizedLabel
	// Days is the window size for the week mode; MaxDaysAhead bounds the
	// calendar mode. Zero where not applicable.
	Days         int
	MaxDaysAhead int
}

// BookingRestrictions are the global limits on patient date selection.
type BookingRestrictions struct {
	MinDaysAhead   int
	MaxDaysAhead   int
	AllowWeekends  bool
	AllowPastDates bool
}

// BookingSettings is the singleton patient-flow configuration.
type BookingSettings struct {
	DateSelectionOptions []DateSelectionOption
	Restrictions         BookingRestrictions
	UpdatedAt            time.Time
}

// Validate enforces the settings invariants at load and update time. Loosely
// shaped settings blobs are rejected here rather than propagated.
func (s *BookingSettings) Validate() error {
	if s.Restrictions.MinDaysAhead < 0 {
		return fmt.Errorf("minDaysAhead must be non-negative, got %d", s.Restrictions.MinDaysAhead)
	}
	if s.Restrictions.MaxDaysAhead < 0 {
		return fmt.Errorf("maxDaysAhead must be non-negative, got %d", s.Restrictions.MaxDaysAhead)
	}
	if s.Restrictions.MinDaysAhead > s.Restrictions.MaxDaysAhead {
		return fmt.Errorf("minDaysAhead (%d) must not exceed maxDaysAhead (%d)",
			s.Restrictions.MinDaysAhead, s.Restrictions.MaxDaysAhead)
	}
	if s.Restrictions.MaxDaysAhead > MaxBookingRestrictionDays {
		return fmt.Errorf("maxDaysAhead must not exceed %d, got %d",
			MaxBookingRestrictionDays, s.Restrictions.MaxDaysAhead)
	}

	seen := make(map[DateSelectionMode]struct{}, len(s.DateSelectionOptions))
	for _, opt := range s.DateSelectionOptions {
		if !opt.Mode.IsValid() {
			return fmt.Errorf("unknown date selection mode: %q", opt.Mode)
		}
		if _, dup := seen[opt.Mode]; dup {
			return fmt.Errorf("duplicate date selection mode: %q", opt.Mode)
		}
		seen[opt.Mode] = struct{}{}

		if opt.Days < 0 || opt.MaxDaysAhead < 0 {
			return fmt.Errorf("mode %q: day windows must be non-negative", opt.Mode)
		}
	}

	return nil
}

// DefaultBookingSettings returns the settings used until an administrator
// configures their own.
func DefaultBookingSettings() *BookingSettings {
	return &BookingSettings{
		DateSelectionOptions: []DateSelectionOption{
			{Mode: ModeToday, Enabled: true, Label: LocalizedLabel{En: "Today", Gu: "આજે"}},
			{Mode: ModeTomorrow, Enabled: true, Label: LocalizedLabel{En: "Tomorrow", Gu: "આવતીકાલે"}},
			{Mode: ModeWeek, Enabled: true, Label: LocalizedLabel{En: "This Week", Gu: "આ અઠવાડિયે"}, Days: 7},
			{Mode: ModeCalendar, Enabled: true, Label: LocalizedLabel{En: "Choose Date", Gu: "તારીખ પસંદ કરો"}, MaxDaysAhead: 30},
		},
		Restrictions: BookingRestrictions{
			MinDaysAhead:   0,
			MaxDaysAhead:   30,
			AllowWeekends:  false,
			AllowPastDates: false,
		},
	}
}
