package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/authz"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/httpresp"
	"github.com/vagabondbarber/booking-api/internal/middleware"
	"github.com/vagabondbarber/booking-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var user models.User
	if err := h.db.Where("id = ?", actor.ID).First(&user).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	resp := gin.H{"user": publicUser(&user)}

	if user.HasRole(authz.RoleBarber) {
		var barber models.Barber
		if err := h.db.Where("user_id = ?", user.ID).First(&barber).Error; err == nil {
			resp["barber_profile"] = barber
		}
	}

	httpresp.OK(c, resp)
}

type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

func (h *MeHandler) UpdateProfile(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile data.")
		return
	}

	var user models.User
	if err := h.db.Where("id = ?", actor.ID).First(&user).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	if err := h.db.Model(&user).Updates(map[string]any{
		"name":         req.Name,
		"phone_number": req.Phone,
	}).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Could not update profile.")
		return
	}

	httpresp.OK(c, publicUser(&user))
}

type UpdateSpecialtiesRequest struct {
	Specialties []string `json:"specialties" binding:"required"`
}

func (h *MeHandler) UpdateSpecialties(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	if !actor.HasRole(authz.RoleBarber) {
		httperr.Forbidden(c, "permission_denied", "Only barbers have specialties.")
		return
	}

	var req UpdateSpecialtiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid specialties.")
		return
	}

	var barber models.Barber
	if err := h.db.Where("user_id = ?", actor.ID).First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barber profile not found.")
		return
	}

	if err := h.db.Model(&barber).
		Update("specialties", datatypes.NewJSONSlice(req.Specialties)).Error; err != nil {
		httperr.Internal(c, "failed_to_update_specialties", "Could not update specialties.")
		return
	}

	httpresp.OK(c, barber)
}
