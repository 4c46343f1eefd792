package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/httpresp"
	"github.com/vagabondbarber/booking-api/internal/middleware"
	"github.com/vagabondbarber/booking-api/internal/models"
	"github.com/vagabondbarber/booking-api/internal/timezone"
	ucAppointment "github.com/vagabondbarber/booking-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db           *gorm.DB
	repo         domain.Repository
	availability *ucAppointment.Availability
	create       *ucAppointment.CreateAppointment
	setStatus    *ucAppointment.SetStatus
	cancel       *ucAppointment.CancelAppointment
	testimonial  *ucAppointment.SubmitTestimonial
}

func NewAppointmentHandler(
	db *gorm.DB,
	repo domain.Repository,
	availability *ucAppointment.Availability,
	create *ucAppointment.CreateAppointment,
	setStatus *ucAppointment.SetStatus,
	cancel *ucAppointment.CancelAppointment,
	testimonial *ucAppointment.SubmitTestimonial,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:           db,
		repo:         repo,
		availability: availability,
		create:       create,
		setStatus:    setStatus,
		cancel:       cancel,
		testimonial:  testimonial,
	}
}

// ======================================================
// AVAILABILITY
// ======================================================

// resolveBarber maps the barber's user id (the identifier the booking form
// works with) to the barber profile.
func (h *AppointmentHandler) resolveBarber(c *gin.Context, barberUserID string) (*models.Barber, bool) {
	barber, err := h.repo.GetBarberByUserID(c.Request.Context(), barberUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "barber_not_found", "The selected barber does not exist.")
		} else {
			httperr.Internal(c, "failed_to_resolve_barber", "Could not look up the barber.")
		}
		return nil, false
	}
	return barber, true
}

func (h *AppointmentHandler) AvailableDays(c *gin.Context) {
	barberUserID := c.Query("barber_id")
	monthStr := c.Query("month")
	if barberUserID == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_params", "Barber and month are required.")
		return
	}

	month, err := time.ParseInLocation("2006-01", monthStr, timezone.Location(""))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Month must be YYYY-MM.")
		return
	}

	barber, ok := h.resolveBarber(c, barberUserID)
	if !ok {
		return
	}

	days, err := h.availability.AvailableDays(c.Request.Context(), barber.ID, month)
	if err != nil {
		httperr.Internal(c, "failed_to_fetch_availability", "Could not compute availability.")
		return
	}

	httpresp.List(c, days)
}

func (h *AppointmentHandler) AvailableSlots(c *gin.Context) {
	barberUserID := c.Query("barber_id")
	dateStr := c.Query("date")
	if barberUserID == "" || dateStr == "" {
		httperr.BadRequest(c, "missing_params", "Barber and date are required.")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", dateStr, timezone.Location(""))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	barber, ok := h.resolveBarber(c, barberUserID)
	if !ok {
		return
	}

	slots, err := h.availability.AvailableSlots(c.Request.Context(), barber.ID, day)
	if err != nil {
		httperr.Internal(c, "failed_to_fetch_availability", "Could not compute availability.")
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// CREATE
// ======================================================

type CreateAppointmentRequest struct {
	BarberID   string   `json:"barber_id" binding:"required"`
	Date       string   `json:"date" binding:"required"` // YYYY-MM-DD
	Time       string   `json:"time" binding:"required"` // HH:mm
	ServiceIDs []string `json:"service_ids" binding:"required,min=1"`
	ExtraInfo  string   `json:"extra_info"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	date, err := time.ParseInLocation(
		"2006-01-02 15:04",
		req.Date+" "+req.Time,
		timezone.Location(""),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	created, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateInput{
		Actor:        actor,
		BarberUserID: req.BarberID,
		Date:         date,
		ServiceIDs:   req.ServiceIDs,
		ExtraInfo:    req.ExtraInfo,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, appointmentResponse(created))
}

// ======================================================
// STATUS
// ======================================================

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *AppointmentHandler) SetStatus(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id := c.Param("id")

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Status is required.")
		return
	}

	ap, err := h.setStatus.Execute(
		c.Request.Context(), actor, id, domain.Status(req.Status),
	)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, appointmentResponse(ap))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id := c.Param("id")

	ap, err := h.cancel.Execute(c.Request.Context(), actor, id)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, appointmentResponse(ap))
}

// ======================================================
// TESTIMONIAL
// ======================================================

type TestimonialRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *AppointmentHandler) SubmitTestimonial(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id := c.Param("id")

	var req TestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Rating and content are required.")
		return
	}

	testimonial, err := h.testimonial.Execute(c.Request.Context(), ucAppointment.TestimonialInput{
		Actor:         actor,
		AppointmentID: id,
		Rating:        req.Rating,
		Content:       req.Content,
	})
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.Created(c, testimonial)
}

// ======================================================
// CURRENT APPOINTMENT
// ======================================================

// MyAppointment returns the caller's appointment still in flight: pending,
// confirmed, or paid (the last one so a testimonial can be left).
func (h *AppointmentHandler) MyAppointment(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var ap models.Appointment
	err := h.db.
		Preload("User").
		Preload("Barber.User").
		Preload("Services").
		Where("user_id = ? AND status IN ?", actor.ID, []string{
			string(domain.StatusPending),
			string(domain.StatusConfirmed),
			string(domain.StatusPaid),
		}).
		Order("created_at DESC").
		First(&ap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpresp.OK(c, gin.H{"appointment": nil})
			return
		}
		httperr.Internal(c, "failed_to_fetch_appointment", "Could not load your appointment.")
		return
	}

	httpresp.OK(c, gin.H{"appointment": appointmentResponse(&ap)})
}

// appointmentResponse adds the derived totals next to the record; they are
// computed from the selected services, never stored.
func appointmentResponse(ap *models.Appointment) gin.H {
	return gin.H{
		"appointment":    ap,
		"total_price":    ap.TotalPrice(),
		"total_duration": ap.TotalDuration(),
	}
}
