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

// SetStatus drives the appointment lifecycle with role-dependent
// transition rights. Cancellation is not reachable here; it has its own
// action.
type SetStatus struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewSetStatus(
	repo domain.Repository,
	notifier notify.Notifier,
	auditor *audit.Dispatcher,
) *SetStatus {
	return &SetStatus{
		repo:     repo,
		notifier: notifier,
		audit:    auditor,
	}
}

func (uc *SetStatus) Execute(
	ctx context.Context,
	actor authz.Actor,
	appointmentID string,
	target domain.Status,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	isClient := actor.ID == ap.UserID
	isProvider := actor.ID == ap.Barber.UserID &&
		actor.IsBarberWith(authz.PermUpdateAppointments)

	if !isClient && !isProvider {
		return nil, httperr.ErrBusiness(httperr.CodePermissionDenied)
	}

	role := domain.RoleProvider
	if isClient {
		role = domain.RoleClient
	}

	if err := domain.CanTransition(role, domain.Status(ap.Status), target); err != nil {
		return nil, err
	}

	ap.Status = string(target)
	if err := uc.repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		return nil, err
	}

	uc.notifyStatusChanged(ap, target, isClient)

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_status_" + string(target),
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func (uc *SetStatus) notifyStatusChanged(
	ap *models.Appointment,
	target domain.Status,
	byClient bool,
) {
	date := ap.Date.Format("02.01.2006")
	hour := ap.Date.Format("15:04")

	clientMsg := fmt.Sprintf(
		"The status of your appointment at Vagabond Barbershop on %s at %s has been updated to %s.",
		date, hour, target,
	)
	barberMsg := fmt.Sprintf(
		"The appointment on %s at %s has been updated to %s.",
		date, hour, target,
	)
	if byClient {
		clientMsg = fmt.Sprintf(
			"You have confirmed your appointment at Vagabond Barbershop for %s at %s.",
			date, hour,
		)
		barberMsg = fmt.Sprintf(
			"The client confirmed the appointment for %s at %s.",
			date, hour,
		)
	}

	uc.notifier.Dispatch(ap.User.PhoneNumber, clientMsg)
	uc.notifier.Dispatch(ap.Barber.User.PhoneNumber, barberMsg)
}
