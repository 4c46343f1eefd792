package appointment

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/authz"
	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/models"
	"github.com/vagabondbarber/booking-api/internal/notify"
)

// CancelAppointment is the only path to CANCELLED. Only the owning client
// may take it, and only while the appointment is still PENDING or
// CONFIRMED. The record is kept.
type CancelAppointment struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewCancelAppointment(
	repo domain.Repository,
	notifier notify.Notifier,
	auditor *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		notifier: notifier,
		audit:    auditor,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor authz.Actor,
	appointmentID string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	if actor.ID != ap.UserID {
		return nil, httperr.ErrBusiness(httperr.CodePermissionDenied)
	}

	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	ap.Status = string(domain.StatusCancelled)
	if err := uc.repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		return nil, err
	}

	date := ap.Date.Format("02.01.2006")
	hour := ap.Date.Format("15:04")

	uc.notifier.Dispatch(ap.User.PhoneNumber, fmt.Sprintf(
		"Your appointment at Vagabond Barbershop on %s at %s has been cancelled.",
		date, hour,
	))
	uc.notifier.Dispatch(ap.Barber.User.PhoneNumber, fmt.Sprintf(
		"The appointment with %s on %s at %s has been cancelled.",
		ap.User.Name, date, hour,
	))

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
