package models

import (
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// Request models

// SlotInput is one slot in a working day update.
type SlotInput struct {
	Time        string `json:"time"` // "10:30 AM"
	MaxBookings int    `json:"maxBookings"`
}

// UpdateWorkingDayRequest replaces the configuration of one weekday.
type UpdateWorkingDayRequest struct {
	IsWorking bool        `json:"isWorking"`
	Slots     []SlotInput `json:"slots"`
}

// ToDomainSlots converts the slot inputs.
func (r *UpdateWorkingDayRequest) ToDomainSlots() []domain.Slot {
	slots := make([]domain.Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		slots = append(slots, domain.Slot{
			Time:        types.TimeString(s.Time),
			MaxBookings: s.MaxBookings,
		})
	}
	return slots
}

// AddClosureRequest adds a date to one closure set.
type AddClosureRequest struct {
	Set    string  `json:"set"`  // "provider" or "facility"
	Date   string  `json:"date"` // "2025-10-15"
	Reason *string `json:"reason,omitempty"`
}

// RestrictionsInput is the restrictions block of a settings update.
type RestrictionsInput struct {
	MinDaysAhead   int  `json:"minDaysAhead"`
	MaxDaysAhead   int  `json:"maxDaysAhead"`
	AllowWeekends  bool `json:"allowWeekends"`
	AllowPastDates bool `json:"allowPastDates"`
}

// DateSelectionOptionInput is one date picker mode in a settings update.
type DateSelectionOptionInput struct {
	Mode         string `json:"mode"`
	Enabled      bool   `json:"enabled"`
	LabelEn      string `json:"labelEn"`
	LabelGu      string `json:"labelGu"`
	Days         int    `json:"days,omitempty"`
	MaxDaysAhead int    `json:"maxDaysAhead,omitempty"`
}

// UpdateSettingsRequest replaces the booking settings singleton.
type UpdateSettingsRequest struct {
	DateSelectionOptions []DateSelectionOptionInput `json:"dateSelectionOptions"`
	Restrictions         RestrictionsInput          `json:"restrictions"`
}

// ToDomain converts the request into the domain settings model. Validation
// happens on the domain model afterwards.
func (r *UpdateSettingsRequest) ToDomain() *domain.BookingSettings {
	options := make([]domain.DateSelectionOption, 0, len(r.DateSelectionOptions))
	for _, opt := range r.DateSelectionOptions {
		options = append(options, domain.DateSelectionOption{
			Mode:         domain.DateSelectionMode(opt.Mode),
			Enabled:      opt.Enabled,
			Label:        domain.LocalizedLabel{En: opt.LabelEn, Gu: opt.LabelGu},
			Days:         opt.Days,
			MaxDaysAhead: opt.MaxDaysAhead,
		})
	}

	return &domain.BookingSettings{
		DateSelectionOptions: options,
		Restrictions: domain.BookingRestrictions{
			MinDaysAhead:   r.Restrictions.MinDaysAhead,
			MaxDaysAhead:   r.Restrictions.MaxDaysAhead,
			AllowWeekends:  r.Restrictions.AllowWeekends,
			AllowPastDates: r.Restrictions.AllowPastDates,
		},
	}
}

// Response models

// SlotResponse is the slot DTO.
type SlotResponse struct {
	Time        string `json:"time"`
	MaxBookings int    `json:"maxBookings"`
}

// WorkingDayResponse is the weekday configuration DTO.
type WorkingDayResponse struct {
	Day       string         `json:"day"` // "Monday"
	IsWorking bool           `json:"isWorking"`
	Slots     []SlotResponse `json:"slots"`
}

// WeekResponse lists the configured weekdays Sunday through Saturday.
type WeekResponse struct {
	Days []WorkingDayResponse `json:"days"`
}

// ClosureResponse is the closure date DTO.
type ClosureResponse struct {
	ID     int64   `json:"id"`
	Set    string  `json:"set"`
	Date   string  `json:"date"`
	Reason *string `json:"reason,omitempty"`
}

// ClosureListResponse lists closure dates.
type ClosureListResponse struct {
	Closures []ClosureResponse `json:"closures"`
}

// DateSelectionOptionResponse is the date picker mode DTO.
type DateSelectionOptionResponse struct {
	Mode         string `json:"mode"`
	Enabled      bool   `json:"enabled"`
	LabelEn      string `json:"labelEn"`
	LabelGu      string `json:"labelGu"`
	Days         int    `json:"days,omitempty"`
	MaxDaysAhead int    `json:"maxDaysAhead,omitempty"`
}

// SettingsResponse is the booking settings DTO.
type SettingsResponse struct {
	DateSelectionOptions []DateSelectionOptionResponse `json:"dateSelectionOptions"`
	Restrictions         RestrictionsInput             `json:"restrictions"`
	UpdatedAt            *time.Time                    `json:"updatedAt,omitempty"`
}

// Conversion helpers

// FromDomainWorkingDay converts the domain model into a DTO.
func FromDomainWorkingDay(d *domain.WorkingDay) *WorkingDayResponse {
	if d == nil {
		return nil
	}

	slots := make([]SlotResponse, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, SlotResponse{
			Time:        s.Time.String(),
			MaxBookings: s.MaxBookings,
		})
	}

	return &WorkingDayResponse{
		Day:       d.Day.String(),
		IsWorking: d.IsWorking,
		Slots:     slots,
	}
}

// FromDomainWeek converts a list of weekday configurations into a DTO.
func FromDomainWeek(days []*domain.WorkingDay) *WeekResponse {
	result := make([]WorkingDayResponse, 0, len(days))
	for _, d := range days {
		result = append(result, *FromDomainWorkingDay(d))
	}
	return &WeekResponse{Days: result}
}

// FromDomainClosure converts the domain model into a DTO.
func FromDomainClosure(c *domain.ClosureDate) *ClosureResponse {
	if c == nil {
		return nil
	}
	return &ClosureResponse{
		ID:     c.ID,
		Set:    string(c.Set),
		Date:   c.Date.Format(domain.DateFormat),
		Reason: c.Reason,
	}
}

// FromDomainClosureList converts a list of closure dates into a DTO.
func FromDomainClosureList(closures []domain.ClosureDate) *ClosureListResponse {
	result := make([]ClosureResponse, 0, len(closures))
	for i := range closures {
		result = append(result, *FromDomainClosure(&closures[i]))
	}
	return &ClosureListResponse{Closures: result}
}

// FromDomainSettings converts the domain model into a DTO.
func FromDomainSettings(s *domain.BookingSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	options := make([]DateSelectionOptionResponse, 0, len(s.DateSelectionOptions))
	for _, opt := range s.DateSelectionOptions {
		options = append(options, DateSelectionOptionResponse{
			Mode:         string(opt.Mode),
			Enabled:      opt.Enabled,
			LabelEn:      opt.Label.En,
			LabelGu:      opt.Label.Gu,
			Days:         opt.Days,
			MaxDaysAhead: opt.MaxDaysAhead,
		})
	}

	resp := &SettingsResponse{
		DateSelectionOptions: options,
		Restrictions: RestrictionsInput{
			MinDaysAhead:   s.Restrictions.MinDaysAhead,
			MaxDaysAhead:   s.Restrictions.MaxDaysAhead,
			AllowWeekends:  s.Restrictions.AllowWeekends,
			AllowPastDates: s.Restrictions.AllowPastDates,
		},
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
