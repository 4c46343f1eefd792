package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/authz"
	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/models"
)

const (
	minRating        = 1
	maxRating        = 5
	minContentLength = 10
	maxContentLength = 200
)

type TestimonialInput struct {
	Actor         authz.Actor
	AppointmentID string
	Rating        int
	Content       string
}

// SubmitTestimonial creates the review for a PAID appointment and moves it
// to COMPLETED as an atomic pair. Because the transition leaves PAID, a
// second submission fails the state precondition.
type SubmitTestimonial struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSubmitTestimonial(
	repo domain.Repository,
	auditor *audit.Dispatcher,
) *SubmitTestimonial {
	return &SubmitTestimonial{
		repo:  repo,
		audit: auditor,
	}
}

func (uc *SubmitTestimonial) Execute(
	ctx context.Context,
	in TestimonialInput,
) (*models.Testimonial, error) {

	if in.Rating < minRating || in.Rating > maxRating {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidOperation)
	}
	if len(in.Content) < minContentLength || len(in.Content) > maxContentLength {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidOperation)
	}

	ap, err := uc.repo.GetAppointmentByID(ctx, in.AppointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	if in.Actor.ID != ap.UserID {
		return nil, httperr.ErrBusiness(httperr.CodePermissionDenied)
	}

	if err := domain.CanReview(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	testimonial := &models.Testimonial{
		Rating:        in.Rating,
		Content:       in.Content,
		UserID:        in.Actor.ID,
		AppointmentID: ap.ID,
	}

	if err := uc.repo.CreateTestimonialCompleting(ctx, testimonial, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "testimonial_submitted",
		Entity:   "testimonial",
		EntityID: &testimonial.ID,
	})

	return testimonial, nil
}
