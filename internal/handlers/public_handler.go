package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/httpresp"
	"github.com/vagabondbarber/booking-api/internal/models"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the unauthenticated catalog the marketing pages
// read: active services, barbers, published testimonials.
type PublicHandler struct {
	db *gorm.DB
}

func NewPublicHandler(db *gorm.DB) *PublicHandler {
	return &PublicHandler{db: db}
}

func (h *PublicHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("active = ?", true).
		Order("created_at ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.
		Preload("User").
		Order("created_at ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Could not list barbers.")
		return
	}

	out := make([]gin.H, 0, len(barbers))
	for _, b := range barbers {
		out = append(out, gin.H{
			"user_id":     b.UserID,
			"name":        b.User.Name,
			"specialties": b.Specialties,
		})
	}

	httpresp.List(c, out)
}

func (h *PublicHandler) ListTestimonials(c *gin.Context) {
	var testimonials []models.Testimonial
	if err := h.db.
		Preload("User").
		Order("created_at DESC").
		Limit(20).
		Find(&testimonials).Error; err != nil {
		httperr.Internal(c, "failed_to_list_testimonials", "Could not list testimonials.")
		return
	}

	out := make([]gin.H, 0, len(testimonials))
	for _, t := range testimonials {
		out = append(out, gin.H{
			"rating":     t.Rating,
			"content":    t.Content,
			"author":     t.User.Name,
			"created_at": t.CreatedAt,
		})
	}

	httpresp.List(c, out)
}
