package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/audit"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/cache"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/config"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/handlers"
	infraRepo "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/infra/repository"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/metrics"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/middleware"
	"github.com/95lucassdaniell/flow-barber-mate-sub000/internal/realtime"
	ucAppointment "github.com/95lucassdaniell/flow-barber-mate-sub000/internal/usecase/appointment"
)

// Infra carries the process-wide singletons built in main.
type Infra struct {
	Log      *zap.Logger
	Redis    *redis.Client // nil: in-process cache and locks
	Hub      *realtime.Hub
	Audit    *audit.Dispatcher
	Metrics  *metrics.BookingMetrics
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, infra Infra) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(infra.Log),
		middleware.Recovery(infra.Log),
		middleware.CORSMiddleware(),
	)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	var (
		hoursBackend cache.Cache  = cache.NewNoop()
		locker       cache.Locker = cache.NewMemoryLocker()
	)
	if infra.Redis != nil {
		hoursBackend = cache.NewRedis(infra.Redis)
		locker = cache.NewRedisLocker(infra.Redis)
	}

	hoursCache := ucAppointment.NewHoursCache(appointmentRepo, hoursBackend, cfg.OpeningHoursCacheTTL, infra.Log)

	snapshotStore := realtime.NewSnapshotStore(cfg.SnapshotTTL)
	infra.Hub.OnChange(snapshotStore.Apply)
	snapshots := ucAppointment.NewSnapshotSource(appointmentRepo, snapshotStore)

	// With LISTEN on, every write comes back through the database trigger,
	// so writers only publish locally when it is off.
	var publisher realtime.Publisher
	if !cfg.RealtimeListen {
		publisher = infra.Hub
	}

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	availabilityUC := ucAppointment.NewGetAvailability(
		appointmentRepo,
		hoursCache,
		snapshots,
		infra.Audit,
		infra.Metrics,
		infra.Log,
	)

	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		hoursCache,
		locker,
		cfg.BookingLockTTL,
		publisher,
		infra.Audit,
		infra.Metrics,
		infra.Log,
	)

	confirmAppointmentUC := ucAppointment.NewConfirmAppointment(appointmentRepo, publisher, infra.Audit)
	completeAppointmentUC := ucAppointment.NewCompleteAppointment(appointmentRepo, publisher, infra.Audit)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, publisher, infra.Audit)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(appointmentRepo)
	listAppointmentsByMonthUC := ucAppointment.NewListAppointmentsByMonth(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db, infra.Audit)

	serviceHandler := handlers.NewServiceHandler(db, infra.Audit)
	clientHandler := handlers.NewClientHandler(db)
	openingHoursHandler := handlers.NewOpeningHoursHandler(db, hoursCache, infra.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(
		availabilityUC,
		createAppointmentUC,
		confirmAppointmentUC,
		completeAppointmentUC,
		cancelAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByMonthUC,
	)
	streamHandler := handlers.NewStreamHandler(infra.Hub, infra.Log)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, availabilityUC, createAppointmentUC)

	// ======================================================
	// OPERACIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gatherer := infra.Gatherer
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
		// API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/barbers", meHandler.ListBarbers)

			secured.GET("/me/barbershop", barbershopHandler.GetMeBarbershop)
			secured.PATCH("/me/barbershop", barbershopHandler.UpdateMeBarbershop)

			secured.GET("/me/clients", clientHandler.List)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			secured.GET("/me/opening-hours", openingHoursHandler.Get)
			secured.PUT("/me/opening-hours", openingHoursHandler.Update)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/me/availability", appointmentHandler.Availability)
			secured.POST("/me/appointments", appointmentHandler.Create)
			secured.GET("/me/appointments", appointmentHandler.ListByDate)
			secured.GET("/me/appointments/month", appointmentHandler.ListByMonth)
			secured.GET("/me/appointments/stream", streamHandler.Appointments)
			secured.PATCH("/me/appointments/:id/confirm", appointmentHandler.Confirm)
			secured.PATCH("/me/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/me/appointments/:id/complete", appointmentHandler.Complete)

			secured.GET("/me/audit-logs", auditLogsHandler.List)
		}
	}
}
