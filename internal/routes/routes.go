package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maxiG180/trimminflow/internal/audit"
	"github.com/maxiG180/trimminflow/internal/config"
	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/handlers"
	"github.com/maxiG180/trimminflow/internal/middleware"
	"github.com/maxiG180/trimminflow/internal/observability/metrics"
	"github.com/maxiG180/trimminflow/internal/timezone"
	ucAppointment "github.com/maxiG180/trimminflow/internal/usecase/appointment"
)

// Deps are the singletons built in main.
type Deps struct {
	Config    *config.Config
	Directory domain.Directory
	Calendar  domain.CalendarStore
	Clock     timezone.Clock
	Audit     *audit.Dispatcher
	Metrics   *metrics.BookingMetrics
	Gatherer  prometheus.Gatherer
	Limiter   middleware.Limiter
	Logger    *slog.Logger
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(deps.Logger))
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins...))

	// ======================================================
	// USE CASES
	// ======================================================
	settings := ucAppointment.SettingsFromConfig(deps.Config)

	catalogUC := ucAppointment.NewGetCatalog(deps.Directory, settings)

	findSlotsUC := ucAppointment.NewFindSlots(
		deps.Directory,
		deps.Calendar,
		deps.Clock,
		settings,
		deps.Metrics,
		deps.Logger,
	)

	bookUC := ucAppointment.NewBook(
		deps.Directory,
		deps.Calendar,
		deps.Clock,
		settings,
		deps.Audit,
		deps.Metrics,
		deps.Logger,
	)

	listUC := ucAppointment.NewListAppointments(
		deps.Directory,
		deps.Calendar,
		settings,
	)

	transitionUC := ucAppointment.NewTransition(
		deps.Calendar,
		deps.Clock,
		settings,
		deps.Audit,
		deps.Metrics,
		deps.Logger,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	publicHandler := handlers.NewPublicHandler(deps.Directory, catalogUC, findSlotsUC, bookUC)
	appointmentHandler := handlers.NewAppointmentHandler(findSlotsUC, bookUC, listUC, transitionUC)

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

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
			publicAPI.GET("/:slug/catalog", publicHandler.Catalog)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)

			booking := publicAPI.Group("")
			if deps.Limiter != nil {
				booking.Use(middleware.RateLimit(deps.Limiter, deps.Logger))
			}
			booking.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(deps.Config))
		{
			secured.GET("/availability", appointmentHandler.Availability)

			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.PATCH("/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.PATCH("/appointments/:id/no-show", appointmentHandler.NoShow)
		}
	}
}
