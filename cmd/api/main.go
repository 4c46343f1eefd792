package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vagabondbarber/booking-api/internal/config"
	dbpkg "github.com/vagabondbarber/booking-api/internal/db"
	"github.com/vagabondbarber/booking-api/internal/middleware"
	"github.com/vagabondbarber/booking-api/internal/notify"
	"github.com/vagabondbarber/booking-api/internal/reminder"
	"github.com/vagabondbarber/booking-api/internal/routes"
)

func main() {

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	notifier := notify.NewDispatcher(notify.NewTwilioSender(cfg))

	if _, err := reminder.Start(db, notifier, cfg.ReminderSpec); err != nil {
		log.Fatalf("failed to start reminder job: %v", err)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, notifier)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
