package smsgateway

import "errors"

var (
	// ErrInternal is returned on internal client errors.
	ErrInternal = errors.New("smsgateway client: internal error")

	// ErrInvalidResponse is returned on an unexpected gateway response.
	ErrInvalidResponse = errors.New("smsgateway client: invalid response")

	// ErrServiceDegraded is returned when the gateway is unreachable and the
	// send was skipped. Booking creation carries on without the confirmation
	// text.
	ErrServiceDegraded = errors.New("smsgateway unavailable: graceful degradation applied")
)
