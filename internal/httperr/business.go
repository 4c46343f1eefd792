package httperr

import (
	"errors"
	"strings"
)

// Business error codes used across the booking core. Each is raised at the
// first failing precondition and propagated unmodified.
const (
	CodePermissionDenied        = "permission_denied"
	CodeNotFound                = "not_found"
	CodeInvalidOperation        = "invalid_operation"
	CodeSlotConflict            = "slot_conflict"
	CodeActiveAppointmentExists = "active_appointment_exists"
	CodeInvalidService          = "invalid_service"
	CodeInvalidTransition       = "invalid_transition"
	CodeInvalidState            = "invalid_state"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// IsUniqueViolation reports whether err came from a unique-index violation
// on the named index. Postgres includes the index name in the constraint
// message; sqlite (used in tests) reports the index name for standalone
// unique indexes.
func IsUniqueViolation(err error, index string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "duplicate key") &&
		!strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return index == "" || strings.Contains(msg, index)
}
