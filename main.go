package main

import (
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"

	"movie-night/config"
	"movie-night/handlers"
	_ "movie-night/migrations"
	"movie-night/monitoring"
	"movie-night/security"
	"movie-night/services"
	"movie-night/utils"
)

func main() {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg)

	// Initialize services
	metadataService := services.NewMetadataService(cfg)
	screeningService := services.NewScreeningService(app, metadataService)
	reservationService := services.NewReservationService(app, redisClient, cfg)
	suggestionService := services.NewSuggestionService(app)
	calendarService := services.NewCalendarService(cfg)

	// Initialize handlers
	screeningHandler := handlers.NewScreeningHandler(screeningService, reservationService, calendarService, cfg)
	rsvpHandler := handlers.NewRSVPHandler(reservationService, screeningService, calendarService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService, screeningService, metadataService)
	adminHandler := handlers.NewAdminHandler(redisClient, cfg, screeningService, reservationService, suggestionService)

	throttle := security.NewThrottle(redisClient, cfg)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Start monitoring
	if cfg.EnableMetrics {
		monitoring.NewMonitor(app, redisClient)
		monitoring.StartMetricsServer(cfg.MetricsPort)
	}

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Screening endpoints
		e.Router.GET("/api/screenings", screeningHandler.List)
		e.Router.POST("/api/screenings/{id}/rsvp", rsvpHandler.Reserve).BindFunc(throttle.Limit)
		e.Router.POST("/api/screenings/{id}/rating", screeningHandler.Rate).BindFunc(throttle.Limit)
		e.Router.GET("/api/screenings/{id}/calendar", screeningHandler.CalendarLinks)
		e.Router.GET("/api/screenings/{id}/calendar.ics", screeningHandler.CalendarFile)

		// Movie catalog and suggestion endpoints
		e.Router.GET("/api/movies/search", suggestionHandler.Search)
		e.Router.GET("/api/suggestions", suggestionHandler.List)
		e.Router.GET("/api/suggestions/featured", suggestionHandler.Featured)
		e.Router.POST("/api/suggestions", suggestionHandler.Recommend).BindFunc(throttle.Limit)
		e.Router.POST("/api/suggestions/{id}/vote", suggestionHandler.Vote).BindFunc(throttle.Limit)

		// Admin endpoints
		e.Router.POST("/api/admin/login", adminHandler.Login)

		admin := e.Router.Group("/api/admin")
		admin.BindFunc(adminHandler.RequireAdmin)
		admin.POST("/screenings", adminHandler.CreateScreening)
		admin.PATCH("/screenings/{id}", adminHandler.UpdateScreening)
		admin.DELETE("/screenings/{id}", adminHandler.DeleteScreening)
		admin.DELETE("/screenings/{id}/seats/{seat}", adminHandler.ReleaseSeat)
		admin.DELETE("/suggestions/{id}", adminHandler.DeleteSuggestion)
		admin.POST("/suggestions/{id}/schedule", adminHandler.ScheduleSuggestion)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
