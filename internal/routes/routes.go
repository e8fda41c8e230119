package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/alpha-clean/internal/audit"
	"github.com/BruksfildServices01/alpha-clean/internal/auth"
	"github.com/BruksfildServices01/alpha-clean/internal/config"
	"github.com/BruksfildServices01/alpha-clean/internal/handlers"
	infraRepo "github.com/BruksfildServices01/alpha-clean/internal/infra/repository"
	"github.com/BruksfildServices01/alpha-clean/internal/infra/storage"
	"github.com/BruksfildServices01/alpha-clean/internal/logging"
	"github.com/BruksfildServices01/alpha-clean/internal/metrics"
	"github.com/BruksfildServices01/alpha-clean/internal/middleware"
	"github.com/BruksfildServices01/alpha-clean/internal/models"
	"github.com/BruksfildServices01/alpha-clean/internal/notify"
	"github.com/BruksfildServices01/alpha-clean/internal/reports"
	"github.com/BruksfildServices01/alpha-clean/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/alpha-clean/internal/usecase/appointment"
	"github.com/BruksfildServices01/alpha-clean/internal/validators"
	"github.com/BruksfildServices01/alpha-clean/internal/whatsapp"
)

// Deps é a infraestrutura já aberta pelo main.
type Deps struct {
	Config   *config.Config
	Logger   *logging.Logger
	DB       *gorm.DB
	Redis    *redis.Client
	Reports  *reports.Repository
	Audit    *audit.Logger
	Events   audit.Publisher
	Images   *storage.ImageStore
	WhatsApp *whatsapp.Client // nil quando não configurado
	Email    notify.EmailSender
	Metrics  *metrics.Metrics
	Resolver validators.Resolver // nil: só sintaxe do e-mail
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	clock := timezone.ShopClock(cfg.ShopTimezone)
	minAdvance := time.Duration(cfg.MinAdvanceMinutes) * time.Minute

	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)
	carRepo := infraRepo.NewCarGormRepository(d.DB)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	revoked := auth.NewRedisRevocationStore(d.Redis)
	resets := auth.NewRedisResetTokenStore(d.Redis)

	var notifier ucAppointment.CompletionNotifier
	if d.WhatsApp != nil {
		notifier = whatsapp.NewNotifier(d.WhatsApp)
	}

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	appointmentUC := handlers.AppointmentUseCases{
		Create:   ucAppointment.NewCreateAppointment(appointmentRepo, d.Events, clock, minAdvance),
		Slots:    ucAppointment.NewGetSlots(appointmentRepo, clock, minAdvance),
		List:     ucAppointment.NewListAppointments(appointmentRepo),
		Start:    ucAppointment.NewStartAppointment(appointmentRepo, d.Events, clock),
		Complete: ucAppointment.NewCompleteAppointment(appointmentRepo, d.Events, notifier, clock, d.Logger),
		Cancel:   ucAppointment.NewCancelAppointment(appointmentRepo, d.Events, clock),
		Delete:   ucAppointment.NewDeleteAppointment(appointmentRepo, d.Events),
		Overview: ucAppointment.NewOverview(appointmentRepo, clock),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(handlers.AuthDeps{
		DB:            d.DB,
		Issuer:        issuer,
		Revoked:       revoked,
		Resets:        resets,
		Mailer:        notify.NewPasswordResetMailer(d.Email, cfg.FrontendURL),
		Emails:        validators.NewEmailValidator(d.Resolver),
		Audit:         d.Events,
		Logger:        d.Logger,
		SecureCookies: cfg.IsProduction(),
	})

	appointmentHandler := handlers.NewAppointmentHandler(appointmentUC, d.Metrics, d.Logger)
	carHandler := handlers.NewCarHandler(carRepo, d.Events, d.Logger)
	serviceHandler := handlers.NewServiceHandler(d.DB, d.Images, d.Events, d.Logger)
	reportHandler := handlers.NewReportHandler(d.Reports, clock, d.Logger)
	whatsappHandler := handlers.NewWhatsAppHandler(d.WhatsApp, d.Logger)
	clientHandler := handlers.NewClientHandler(d.DB, d.Logger)
	workingHoursHandler := handlers.NewWorkingHoursHandler(d.DB, d.Logger)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.Audit, d.Logger)

	// ======================================================
	// 🔐 MIDDLEWARE DE ACESSO
	// ======================================================
	authenticated := middleware.AuthMiddleware(issuer, revoked, d.Logger)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	limiter := middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔐 AUTH
	// ======================================================
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", limiter, authHandler.Register)
		authGroup.POST("/login", limiter, authHandler.Login)
		authGroup.POST("/forgot-password", limiter, authHandler.ForgotPassword)
		authGroup.POST("/reset-password", limiter, authHandler.ResetPassword)
		authGroup.GET("/verify-reset-token/:token", authHandler.VerifyResetToken)

		authGroup.POST("/logout", authenticated, authHandler.Logout)
		authGroup.GET("/me", authenticated, authHandler.Me)
		authGroup.PUT("/me", authenticated, authHandler.UpdateMe)
	}

	// ======================================================
	// 📱 WHATSAPP (ADMIN)
	// ======================================================
	wa := r.Group("/whatsapp", authenticated, adminOnly)
	{
		wa.GET("/status", whatsappHandler.Status)
		wa.GET("/qr", whatsappHandler.QR)
		wa.POST("/connect", whatsappHandler.Connect)
		wa.POST("/disconnect", whatsappHandler.Disconnect)
		wa.POST("/test", whatsappHandler.Test)
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PÚBLICO
		// ------------------------------
		api.GET("/services", serviceHandler.List)
		api.GET("/services/:id", serviceHandler.Get)

		// ------------------------------
		// 🔐 PRIVADO
		// ------------------------------
		secured := api.Group("/")
		secured.Use(authenticated)
		{
			// APPOINTMENTS
			secured.GET("/agendamentos", appointmentHandler.List)
			secured.POST("/agendamentos", appointmentHandler.Create)
			secured.GET("/agendamentos/slots", appointmentHandler.Slots)
			secured.DELETE("/agendamentos/:id/cancel", appointmentHandler.Cancel)

			// CARS
			secured.GET("/cars", carHandler.List)
			secured.POST("/cars", carHandler.Create)
			secured.GET("/cars/default", carHandler.Default)
			secured.PUT("/cars/:id", carHandler.Update)
			secured.DELETE("/cars/:id", carHandler.Delete)
			secured.PATCH("/cars/:id/default", carHandler.SetDefault)
		}

		// ------------------------------
		// 🛠️ ADMIN
		// ------------------------------
		admin := api.Group("/")
		admin.Use(authenticated, adminOnly)
		{
			admin.PATCH("/agendamentos/:id/start", appointmentHandler.Start)
			admin.PATCH("/agendamentos/:id/complete", appointmentHandler.Complete)
			admin.DELETE("/agendamentos/:id", appointmentHandler.Delete)
			admin.GET("/agendamentos/calendar", appointmentHandler.Calendar)
			admin.GET("/agendamentos/dia", appointmentHandler.Day)
			admin.GET("/dashboard", appointmentHandler.Dashboard)

			admin.POST("/services", serviceHandler.Create)
			admin.PUT("/services/:id", serviceHandler.Update)
			admin.DELETE("/services/:id", serviceHandler.Delete)
			admin.POST("/services/:id/imagem", serviceHandler.UploadImage)

			admin.GET("/reports/monthly-revenue", reportHandler.MonthlyRevenue)
			admin.GET("/reports/top-services", reportHandler.TopServices)
			admin.GET("/reports/top-clients", reportHandler.TopClients)
			admin.GET("/reports/stats", reportHandler.Stats)
			admin.GET("/reports/export", reportHandler.Export)

			admin.GET("/clients", clientHandler.List)
			admin.GET("/working-hours", workingHoursHandler.Get)
			admin.PUT("/working-hours", workingHoursHandler.Update)
			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
