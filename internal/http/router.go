package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/opcl/backend/internal/cache"
	"github.com/opcl/backend/internal/config"
	"github.com/opcl/backend/internal/dashboard"
	"github.com/opcl/backend/internal/genai"
	"github.com/opcl/backend/internal/http/handlers"
	"github.com/opcl/backend/internal/http/middleware"
	"github.com/opcl/backend/internal/intake"
	"github.com/opcl/backend/internal/session"
	"github.com/opcl/backend/internal/webhook"

	_ "github.com/opcl/backend/docs"
)

func Router(cfg config.Config, relay *webhook.Relay, ai *genai.Client, store cache.Store, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Sessions: &session.Service{
			Relay:         relay,
			LoginURL:      cfg.Webhooks.Login,
			SignupURL:     cfg.Webhooks.Signup,
			UpdateUserURL: cfg.Webhooks.UpdateUser,
			Logger:        logger,
		},
		Intake: &intake.Service{
			Relay:       relay,
			SubmitURL:   cfg.Webhooks.SubmitIntake,
			ScheduleURL: cfg.Webhooks.ChooseSchedule,
			AnalyzeURL:  cfg.Webhooks.ChatAnalyze,
			Logger:      logger,
		},
		Drafts: intake.NewDraftStore(store),
		Client: &dashboard.ClientService{
			Relay:           relay,
			ApplicationsURL: cfg.Webhooks.Applications,
			DetailURL:       cfg.Webhooks.ApplicationDetail,
			Cache:           store,
			Logger:          logger,
		},
		Manager: &dashboard.ManagerService{
			Relay:        relay,
			DashboardURL: cfg.Webhooks.ManagerDashboard,
			PreviewURL:   cfg.Webhooks.DashboardPreview,
			StartURL:     cfg.Webhooks.StartConsultation,
			SummaryURL:   cfg.Webhooks.ConsultationSummary,
			Logger:       logger,
		},
		Relay:       relay,
		AI:          ai,
		Validator:   validator.New(),
		CalendarURL: cfg.Webhooks.GetCalendar,
		ConfirmURL:  cfg.Webhooks.AdjustSchedule,
		Logger:      logger,
	}

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/application-detail", h.ApplicationDetail)
		api.GET("/applications", h.ApplicationsList)
		api.POST("/chat", h.Chat)
		api.POST("/stt", h.STT)

		api.POST("/auth/login", h.Login)
		api.POST("/auth/signup", h.Signup)
		api.POST("/profile/password", h.ChangePassword)

		api.POST("/intake/basic-info", h.IntakeBasicInfo)
		api.GET("/intake/draft", h.DraftGet)
		api.PUT("/intake/draft", h.DraftPut)
		api.DELETE("/intake/draft", h.DraftDelete)
		api.GET("/calendar", h.Calendar)
		api.POST("/schedule/choose", h.ChooseSchedule)
		api.POST("/intake/submit", h.IntakeSubmit)

		api.POST("/manager/dashboard", h.ManagerDashboard)
		api.POST("/manager/schedule/confirm", h.ConfirmSchedule)
		api.POST("/consultation/start", h.ConsultationStart)
		api.POST("/consultation/summary", h.ConsultationSummary)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
