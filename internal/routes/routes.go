package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vagabondbarber/booking-api/internal/audit"
	"github.com/vagabondbarber/booking-api/internal/cache"
	"github.com/vagabondbarber/booking-api/internal/config"
	"github.com/vagabondbarber/booking-api/internal/handlers"
	infraRepo "github.com/vagabondbarber/booking-api/internal/infra/repository"
	"github.com/vagabondbarber/booking-api/internal/middleware"
	"github.com/vagabondbarber/booking-api/internal/notify"
	ucAdmin "github.com/vagabondbarber/booking-api/internal/usecase/admin"
	ucAppointment "github.com/vagabondbarber/booking-api/internal/usecase/appointment"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	notifier notify.Notifier,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	availabilityCache := cache.New(cfg.RedisAddr)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucAppointment.NewAvailability(appointmentRepo, availabilityCache)
	createUC := ucAppointment.NewCreateAppointment(appointmentRepo, notifier, auditDispatcher)
	setStatusUC := ucAppointment.NewSetStatus(appointmentRepo, notifier, auditDispatcher)
	cancelUC := ucAppointment.NewCancelAppointment(appointmentRepo, notifier, auditDispatcher)
	testimonialUC := ucAppointment.NewSubmitTestimonial(appointmentRepo, auditDispatcher)

	changeRoleUC := ucAdmin.NewChangeRole(db, notifier, auditDispatcher)
	suspendUserUC := ucAdmin.NewSuspendUser(db, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	publicHandler := handlers.NewPublicHandler(db)
	barberHandler := handlers.NewBarberHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		appointmentRepo,
		availabilityUC,
		createUC,
		setStatusUC,
		cancelUC,
		testimonialUC,
	)

	adminHandler := handlers.NewAdminHandler(
		db,
		changeRoleUC,
		suspendUserUC,
		auditDispatcher,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/services", publicHandler.ListServices)
			publicAPI.GET("/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/testimonials", publicHandler.ListTestimonials)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.PATCH("/me", meHandler.UpdateProfile)
			secured.PUT("/me/specialties", meHandler.UpdateSpecialties)

			// ------------------------------
			// BOOKING
			// ------------------------------
			secured.GET("/availability/days", appointmentHandler.AvailableDays)
			secured.GET("/availability/slots", appointmentHandler.AvailableSlots)
			secured.GET("/barbers", barberHandler.List)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/me/appointment", appointmentHandler.MyAppointment)
			secured.PATCH("/appointments/:id/status", appointmentHandler.SetStatus)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.POST("/appointments/:id/testimonial", appointmentHandler.SubmitTestimonial)

			secured.GET("/me/schedule", barberHandler.Schedule)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			{
				admin.GET("/stats", adminHandler.Stats)
				admin.GET("/users", adminHandler.ListUsers)
				admin.PATCH("/users/:id/role", adminHandler.ChangeRole)
				admin.PATCH("/users/:id/suspend", adminHandler.SuspendUser)

				admin.GET("/services", adminHandler.ListServices)
				admin.POST("/services", adminHandler.CreateService)
				admin.PATCH("/services/:id", adminHandler.UpdateService)
				admin.DELETE("/services/:id", adminHandler.DeleteService)

				admin.GET("/appointments", adminHandler.Appointments)
				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
