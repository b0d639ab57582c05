package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/billing"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/clock"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/composer"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/config"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/handlers"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/layout"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/middleware"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/notify"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/status"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/store"
)

// SetupRoutes wires the scheduling engine and configures the application
// routes. The composed engine is returned so main can attach the wall-clock
// ticker.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger) *composer.Composer {
	clk := clock.System()
	appointmentStore := store.NewGormStore(db)

	var notifier notify.Notifier = notify.NewLogNotifier(log)
	if cfg.WhatsApp.AccessToken != "" && cfg.WhatsApp.NotifyRecipient != "" {
		sender, err := notify.NewWhatsAppSender(cfg.WhatsApp.AccessToken, cfg.WhatsApp.PhoneNumberID)
		if err != nil {
			log.Warn().Err(err).Msg("whatsapp sender disabled")
		} else {
			notifier = notify.Multi{
				notify.NewLogNotifier(log),
				&notify.WhatsAppNotifier{Sender: sender, To: cfg.WhatsApp.NotifyRecipient},
			}
		}
	}

	machine := status.NewMachine(billing.NewGormCreator(db), notifier)
	comp := composer.New(composer.Config{
		Store: appointmentStore,
		Clock: clk,
		Window: layout.Window{
			StartHour:       cfg.Calendar.DayStartHour,
			EndHour:         cfg.Calendar.DayEndHour,
			MinBlockMinutes: cfg.Calendar.MinBlockMinutes,
			GutterPct:       cfg.Calendar.GutterPct,
		},
		WeekStart: cfg.Calendar.WeekStart,
		Notifier:  notifier,
		Machine:   machine,
	})

	appointmentHandler := handlers.NewAppointmentHandler(comp)
	scheduleHandler := handlers.NewScheduleHandler(comp, clk)
	referenceHandler := handlers.NewReferenceHandler(db)
	reminderHandler := handlers.NewReminderHandler(appointmentStore, clk)

	api := router.Group("/api/v1")
	api.Use(middleware.TenantMiddleware())
	{
		scheduleRoutes := api.Group("/schedule")
		{
			scheduleRoutes.GET("/grid", scheduleHandler.GetGrid)
			scheduleRoutes.GET("/navigate", scheduleHandler.Navigate)
		}

		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.POST("", appointmentHandler.CreateAppointment)
			appointmentRoutes.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PATCH("/:id/status", appointmentHandler.UpdateAppointmentStatus)
			appointmentRoutes.POST("/:id/delete-request", appointmentHandler.RequestDelete)
			appointmentRoutes.POST("/:id/delete-cancel", appointmentHandler.CancelDelete)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		api.GET("/patients", referenceHandler.GetPatients)
		api.GET("/users", referenceHandler.GetUsers)
		api.GET("/services", referenceHandler.GetServices)
		api.GET("/protocols", referenceHandler.GetProtocols)

		reminderRoutes := api.Group("/reminders")
		{
			reminderRoutes.GET("", reminderHandler.GetReminders)
			reminderRoutes.POST("", reminderHandler.CreateReminder)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})

	return comp
}
