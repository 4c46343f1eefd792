package appointment

import "github.com/vagabondbarber/booking-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusPaid      Status = "PAID"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func InitialStatus() Status {
	return StatusPending
}

// ActiveStatuses are the statuses that occupy a slot and count as "the
// client already has an appointment".
func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

func IsTerminal(s Status) bool {
	return s == StatusCancelled || s == StatusCompleted
}

func IsValid(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ===============================
// Transitions
// ===============================

// Role of the actor relative to a specific appointment.
type Role int

const (
	RoleClient Role = iota
	RoleProvider
)

// CanTransition is the single authority on status edges:
//
//	PENDING -> CONFIRMED -> PAID -> COMPLETED
//	PENDING | CONFIRMED -> CANCELLED (client-only, via the cancel action)
//
// The client may only confirm their own pending appointment. The provider
// moves a confirmed appointment through payment and completion but can
// never cancel; a confirmed booking is only cancellable by the client.
func CanTransition(role Role, current, target Status) error {
	if !IsValid(target) {
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}

	if target == StatusCancelled {
		// Cancellation goes through the dedicated cancel action.
		return httperr.ErrBusiness(httperr.CodeInvalidTransition)
	}

	switch role {
	case RoleClient:
		if current == StatusPending && target == StatusConfirmed {
			return nil
		}
	case RoleProvider:
		if current == StatusConfirmed && target == StatusPaid {
			return nil
		}
		if current == StatusPaid && target == StatusCompleted {
			return nil
		}
	}

	return httperr.ErrBusiness(httperr.CodeInvalidTransition)
}

// CanCancel guards the client-initiated cancel path. Only PENDING and
// CONFIRMED appointments can be cancelled; once payment happened the record
// runs to completion.
func CanCancel(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

// CanReview guards testimonial submission: only a PAID appointment accepts
// one, and the paired transition to COMPLETED makes a second submission
// fail here.
func CanReview(current Status) error {
	if current != StatusPaid {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}
