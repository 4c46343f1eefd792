package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	domain "github.com/vagabondbarber/booking-api/internal/domain/appointment"
	"github.com/vagabondbarber/booking-api/internal/httperr"
	"github.com/vagabondbarber/booking-api/internal/httpresp"
	"github.com/vagabondbarber/booking-api/internal/middleware"
	"github.com/vagabondbarber/booking-api/internal/models"
	"github.com/vagabondbarber/booking-api/internal/schedule"
	"github.com/vagabondbarber/booking-api/internal/timezone"
	ucAdmin "github.com/vagabondbarber/booking-api/internal/usecase/admin"
)

type AdminHandler struct {
	db          *gorm.DB
	changeRole  *ucAdmin.ChangeRole
	suspendUser *ucAdmin.SuspendUser
	audit       *audit.Dispatcher
}

func NewAdminHandler(
	db *gorm.DB,
	changeRole *ucAdmin.ChangeRole,
	suspendUser *ucAdmin.SuspendUser,
	auditor *audit.Dispatcher,
) *AdminHandler {
	return &AdminHandler{
		db:          db,
		changeRole:  changeRole,
		suspendUser: suspendUser,
		audit:       auditor,
	}
}

// requireAdmin gates every admin route; the finer-grained rules live in
// the use cases.
func (h *AdminHandler) requireAdmin(c *gin.Context) bool {
	if !middleware.ActorFrom(c).IsAdmin() {
		httperr.Forbidden(c, "permission_denied", "Admin access required.")
		return false
	}
	return true
}

// ======================================================
// DASHBOARD
// ======================================================

type DashboardStats struct {
	TotalUsers          int64   `json:"total_users"`
	ActiveServices      int64   `json:"active_services"`
	MonthlyAppointments int64   `json:"monthly_appointments"`
	MonthlyRevenue      float64 `json:"monthly_revenue"`
}

func (h *AdminHandler) Stats(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	start, end := schedule.MonthBounds(timezone.Now())
	revenueStatuses := []string{
		string(domain.StatusConfirmed),
		string(domain.StatusPaid),
		string(domain.StatusCompleted),
	}

	var stats DashboardStats
	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.Service{}).Where("active = ?", true).Count(&stats.ActiveServices)
	h.db.Model(&models.Appointment{}).
		Where("date >= ? AND date < ? AND status IN ?", start, end, revenueStatuses).
		Count(&stats.MonthlyAppointments)

	row := h.db.Raw(`
		SELECT COALESCE(SUM(s.price), 0)
		FROM appointment_services aps
		JOIN services s ON s.id = aps.service_id
		JOIN appointments a ON a.id = aps.appointment_id
		WHERE a.date >= ? AND a.date < ? AND a.status IN ?`,
		start, end, revenueStatuses,
	).Row()
	if err := row.Scan(&stats.MonthlyRevenue); err != nil {
		httperr.Internal(c, "failed_to_compute_stats", "Could not compute statistics.")
		return
	}

	httpresp.OK(c, stats)
}

// ======================================================
// USERS
// ======================================================

func (h *AdminHandler) ListUsers(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var users []models.User
	if err := h.db.Order("created_at ASC").Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not list users.")
		return
	}

	httpresp.List(c, users)
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *AdminHandler) ChangeRole(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Role is required.")
		return
	}

	err := h.changeRole.Execute(c.Request.Context(), actor, c.Param("id"), req.Role)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}

type SuspendRequest struct {
	Suspend *bool `json:"suspend" binding:"required"`
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req SuspendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Suspend flag is required.")
		return
	}

	err := h.suspendUser.Execute(c.Request.Context(), actor, c.Param("id"), *req.Suspend)
	if err != nil {
		httperr.WriteBusiness(c, err)
		return
	}

	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// SERVICES
// ======================================================

type ServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
}

func (h *AdminHandler) ListServices(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	var services []models.Service
	if err := h.db.Order("created_at ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	actor := middleware.ActorFrom(c)

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service data.")
		return
	}

	service := models.Service{
		Name:        req.Name,
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Active:      true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create the service.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &service.ID,
	})

	httpresp.Created(c, service)
}

type UpdateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"min=0"`
	DurationMin int     `json:"duration_min" binding:"required,min=1"`
	Active      *bool   `json:"active"`
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	actor := middleware.ActorFrom(c)

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid service data.")
		return
	}

	var service models.Service
	if err := h.db.Where("id = ?", c.Param("id")).First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	updates := map[string]any{
		"name":         req.Name,
		"price":        req.Price,
		"duration_min": req.DurationMin,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if err := h.db.Model(&service).Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update the service.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &service.ID,
	})

	httpresp.OK(c, service)
}

func (h *AdminHandler) DeleteService(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	actor := middleware.ActorFrom(c)

	id := c.Param("id")

	var service models.Service
	if err := h.db.Where("id = ?", id).First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	if err := h.db.Delete(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Could not delete the service.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "service_deleted",
		Entity:   "service",
		EntityID: &service.ID,
	})

	httpresp.OK(c, gin.H{"status": "ok"})
}

// ======================================================
// APPOINTMENTS (calendar view)
// ======================================================

// Appointments lists all appointments in a month, for the back-office
// calendar.
func (h *AdminHandler) Appointments(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		httperr.BadRequest(c, "missing_month", "Month is required.")
		return
	}

	month, err := time.ParseInLocation("2006-01", monthStr, timezone.Location(""))
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "Month must be YYYY-MM.")
		return
	}

	start, end := schedule.MonthBounds(month)

	var aps []models.Appointment
	if err := h.db.
		Preload("User").
		Preload("Barber.User").
		Preload("Services").
		Where("date >= ? AND date < ?", start, end).
		Order("date ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not load appointments.")
		return
	}

	httpresp.List(c, aps)
}
