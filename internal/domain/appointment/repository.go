package appointment

import (
	"context"
	"time"

	"github.com/vagabondbarber/booking-api/internal/models"
)

type Repository interface {
	// -------- Users / Barbers --------
	GetUserByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	// GetBarberByUserID resolves a barber profile from the owning user's
	// id, which is how clients reference providers.
	GetBarberByUserID(
		ctx context.Context,
		userID string,
	) (*models.Barber, error)

	// -------- Services --------
	GetServicesByIDs(
		ctx context.Context,
		ids []string,
	) ([]models.Service, error)

	// -------- Appointment (create / conflict) --------
	CountActiveAt(
		ctx context.Context,
		barberID string,
		at time.Time,
	) (int64, error)

	HasActiveAppointmentForClient(
		ctx context.Context,
		userID string,
	) (bool, error)

	// CreateAppointment inserts the appointment and its service selections
	// atomically. Unique-constraint violations come back as the matching
	// business error.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentByID(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// CreateTestimonialCompleting writes the testimonial and flips the
	// appointment to COMPLETED as one transaction.
	CreateTestimonialCompleting(
		ctx context.Context,
		t *models.Testimonial,
		ap *models.Appointment,
	) error

	// -------- Availability --------
	ListActiveBetween(
		ctx context.Context,
		barberID string,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
