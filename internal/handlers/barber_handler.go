package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/authz"
	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/httpresp"
	"github.com/vagabondbarber/booking-api/internal/middleware"
	"github.com/vagabondbarber/booking-api/internal/models"
	"github.com/vagabondbarber/booking-api/internal/schedule"
	"github.com/vagabondbarber/booking-api/internal/timezone"
)

type BarberHandler struct {
	db *gorm.DB
}

func NewBarberHandler(db *gorm.DB) *BarberHandler {
	return &BarberHandler{db: db}
}

// List returns every barber profile with its owning user, for the booking
// form's provider picker.
func (h *BarberHandler) List(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.
		Preload("User").
		Order("created_at ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}

	httpresp.List(c, barbers)
}

// Schedule returns the barber's own non-cancelled appointments for a date.
func (h *BarberHandler) Schedule(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	if !actor.IsBarberWith(authz.PermViewAppointments) {
		httperr.Forbidden(c, "permission_denied", "You cannot view appointments.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", dateStr, timezone.Location(""))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD.")
		return
	}

	var barber models.Barber
	if err := h.db.Where("user_id = ?", actor.ID).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barber profile not found.")
		return
	}

	start, end := schedule.DayBounds(date)

	var aps []models.Appointment
	if err := h.db.
		Preload("User").
		Preload("Services").
		Where(
			"barber_id = ? AND status <> ? AND date >= ? AND date < ?",
			barber.ID, string(domain.StatusCancelled), start, end,
		).
		Order("date ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not load appointments.")
		return
	}

	httpresp.List(c, aps)
}
