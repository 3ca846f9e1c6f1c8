package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/subsense/internal/config"
	"github.com/smallbiznis/subsense/internal/extractor"
	"github.com/smallbiznis/subsense/internal/insights"
	"github.com/smallbiznis/subsense/internal/observability"
	profiledomain "github.com/smallbiznis/subsense/internal/profile/domain"
	reminderdomain "github.com/smallbiznis/subsense/internal/reminder/domain"
	"github.com/smallbiznis/subsense/internal/report"
	subscriptiondomain "github.com/smallbiznis/subsense/internal/subscription/domain"
	"github.com/smallbiznis/subsense/internal/usage"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogging(log))
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger, httpMetrics *observability.HTTPMetrics) *gin.Engine {
	return NewEngine(log, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	subscriptionSvc subscriptiondomain.Service
	profileSvc      profiledomain.Service
	reminderSvc     reminderdomain.Service
	extractorSvc    *extractor.Service
	insightsEngine  *insights.Engine
	usageSvc        *usage.Service
	reportSvc       *report.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	SubscriptionSvc subscriptiondomain.Service
	ProfileSvc      profiledomain.Service
	ReminderSvc     reminderdomain.Service
	ExtractorSvc    *extractor.Service
	InsightsEngine  *insights.Engine
	UsageSvc        *usage.Service
	ReportSvc       *report.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		subscriptionSvc: p.SubscriptionSvc,
		profileSvc:      p.ProfileSvc,
		reminderSvc:     p.ReminderSvc,
		extractorSvc:    p.ExtractorSvc,
		insightsEngine:  p.InsightsEngine,
		usageSvc:        p.UsageSvc,
		reportSvc:       p.ReportSvc,
	}

	svc.registerAPIRoutes()
	svc.registerDevRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.UserContext())

	// -------- Subscriptions --------
	api.GET("/subscriptions", s.ListSubscriptions)
	api.POST("/subscriptions", s.CreateSubscription)
	api.GET("/subscriptions/:id", s.GetSubscriptionByID)
	api.PATCH("/subscriptions/:id", s.UpdateSubscription)
	api.DELETE("/subscriptions/:id", s.DeleteSubscription)
	api.POST("/subscriptions/:id/used", s.MarkSubscriptionUsed)
	api.PATCH("/subscriptions/:id/billing-date", s.UpdateBillingDate)

	// -------- Email parsing --------
	api.POST("/parse-email", s.ParseEmail)

	// -------- Insights --------
	api.GET("/insights/summary", s.GetInsightsSummary)
	api.GET("/insights/trend", s.GetInsightsTrend)
	api.GET("/insights/advanced", s.PremiumRequired(), s.GetInsightsAdvanced)
	api.GET("/calendar/:year/:month", s.GetCalendar)

	// -------- Reminders --------
	api.GET("/reminders", s.GetReminderSettings)
	api.PUT("/reminders", s.UpdateReminderSettings)
	api.GET("/reminders/upcoming", s.ListUpcomingRenewals)

	// -------- Usage --------
	api.POST("/usage/track", s.TrackUsage)

	// -------- Reports --------
	api.GET("/reports/csv", s.ExportSubscriptionsCSV)
	api.GET("/reports/usage-csv", s.ExportUsageCSV)
	api.GET("/reports/pdf", s.PremiumRequired(), s.ExportSpendReportPDF)

	// -------- Profile --------
	api.GET("/profile", s.GetProfile)
	api.PATCH("/profile", s.UpdateProfile)
}

func (s *Server) registerDevRoutes() {
	if s.cfg.IsProduction() {
		return
	}
	dev := s.engine.Group("/dev", s.UserContext())
	dev.POST("/upgrade", s.DevUpgradeTier)
}
