package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/authz"
	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/models"
	"github.com/vagabondbarber/booking-api/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	Actor authz.Actor

	// BarberUserID references the provider by their user id, which is how
	// the booking form identifies barbers.
	BarberUserID string

	// Date is the exact slot start, already localized.
	Date time.Time

	ServiceIDs []string
	ExtraInfo  string
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment is the booking guard: it re-validates every
// precondition against current store state and performs the guarded insert.
type CreateAppointment struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	notifier notify.Notifier,
	auditor *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:     repo,
		notifier: notifier,
		audit:    auditor,
	}
}

// Execute runs the precondition chain in order, first failure wins:
// capability, provider existence, self-booking, slot conflict, one active
// appointment per client, service resolution. The partial unique indexes
// behind CreateAppointment close the remaining read-to-write race.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Appointment, error) {

	if !in.Actor.HasPermission(authz.PermCreateAppointment) {
		return nil, httperr.ErrBusiness(httperr.CodePermissionDenied)
	}

	barber, err := uc.repo.GetBarberByUserID(ctx, in.BarberUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	if barber.UserID == in.Actor.ID {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidOperation)
	}

	taken, err := uc.repo.CountActiveAt(ctx, barber.ID, in.Date)
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, httperr.ErrBusiness(httperr.CodeSlotConflict)
	}

	hasActive, err := uc.repo.HasActiveAppointmentForClient(ctx, in.Actor.ID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, httperr.ErrBusiness(httperr.CodeActiveAppointmentExists)
	}

	services, err := uc.repo.GetServicesByIDs(ctx, in.ServiceIDs)
	if err != nil {
		return nil, err
	}
	if len(services) != len(in.ServiceIDs) {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidService)
	}

	ap := &models.Appointment{
		UserID:    in.Actor.ID,
		BarberID:  barber.ID,
		Date:      in.Date,
		Status:    string(domain.InitialStatus()),
		ExtraInfo: in.ExtraInfo,
		Services:  services,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	created, err := uc.repo.GetAppointmentByID(ctx, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.notifyBooked(ctx, created)

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &created.ID,
	})

	return created, nil
}

// notifyBooked sends the booking summary to both parties. Best-effort: the
// dispatcher swallows delivery failures.
func (uc *CreateAppointment) notifyBooked(ctx context.Context, ap *models.Appointment) {
	names := make([]string, 0, len(ap.Services))
	for _, s := range ap.Services {
		names = append(names, s.Name)
	}

	date := ap.Date.Format("02.01.2006")
	hour := ap.Date.Format("15:04")
	serviceList := strings.Join(names, ", ")

	uc.notifier.Dispatch(ap.User.PhoneNumber, fmt.Sprintf(
		"Hi! Your appointment at Vagabond Barbershop has been requested for %s at %s with %s. Services: %s. Total duration: %d minutes. Total price: %.2f RON. See you soon!",
		date, hour, ap.Barber.User.Name, serviceList,
		ap.TotalDuration(), ap.TotalPrice(),
	))

	uc.notifier.Dispatch(ap.Barber.User.PhoneNumber, fmt.Sprintf(
		"Hi! You have a new appointment request for %s at %s from %s. Services: %s. Total duration: %d minutes, total price: %.2f RON. Contact the client at %s to confirm.",
		date, hour, ap.User.Name, serviceList,
		ap.TotalDuration(), ap.TotalPrice(), ap.User.PhoneNumber,
	))
}
