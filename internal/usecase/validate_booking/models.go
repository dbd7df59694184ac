package validate_booking

import (
	"time"

	"github.com/krish-ktm/clinic-booking-service/internal/domain"
	"github.com/krish-ktm/clinic-booking-service/pkg/types"
)

// Request is the proposed booking to dry-run.
type Request struct {
	Flow          domain.Flow
	Date          time.Time
	SlotTime      types.TimeString
	Name          string
	ContactNumber string
}

// Response is the validation verdict. OK means every check passed at read
// time; it is advisory only, the submission re-runs the sequence atomically.
type Response struct {
	OK      bool
	Reason  domain.RejectionReason // empty when OK
	Message string                 // human-readable rejection message, empty when OK
}

func rejected(reason domain.RejectionReason, message string) *Response {
	return &Response{Reason: reason, Message: message}
}
