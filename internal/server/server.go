package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/talenthq/hireline/internal/analytics"
	analyticsdomain "github.com/talenthq/hireline/internal/analytics/domain"
	"github.com/talenthq/hireline/internal/application"
	applicationdomain "github.com/talenthq/hireline/internal/application/domain"
	"github.com/talenthq/hireline/internal/audit"
	auditdomain "github.com/talenthq/hireline/internal/audit/domain"
	"github.com/talenthq/hireline/internal/authorization"
	"github.com/talenthq/hireline/internal/config"
	"github.com/talenthq/hireline/internal/observability"
	obsmiddleware "github.com/talenthq/hireline/internal/observability/logger"
	obsmetrics "github.com/talenthq/hireline/internal/observability/metrics"
	obstracing "github.com/talenthq/hireline/internal/observability/tracing"
	"github.com/talenthq/hireline/internal/reference"
	referencedomain "github.com/talenthq/hireline/internal/reference/domain"
	"github.com/talenthq/hireline/internal/user"
	userdomain "github.com/talenthq/hireline/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	audit.Module,
	application.Module,
	analytics.Module,
	reference.Module,
	user.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORS())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
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
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	authzSvc     authorization.Service
	auditSvc     auditdomain.Service
	appSvc       applicationdomain.Service
	analyticsSvc analyticsdomain.Service
	userSvc      userdomain.Service
	userRepo     userdomain.Repository
	refRepo      referencedomain.Repository
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	AuthzSvc     authorization.Service
	AuditSvc     auditdomain.Service
	AppSvc       applicationdomain.Service
	AnalyticsSvc analyticsdomain.Service
	UserSvc      userdomain.Service
	UserRepo     userdomain.Repository
	RefRepo      referencedomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		authzSvc:     p.AuthzSvc,
		auditSvc:     p.AuditSvc,
		appSvc:       p.AppSvc,
		analyticsSvc: p.AnalyticsSvc,
		userSvc:      p.UserSvc,
		userRepo:     p.UserRepo,
		refRepo:      p.RefRepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.ActorContext())

	// -------- Applications --------
	api.GET("/applications", s.ListApplications)
	api.POST("/applications", s.CreateApplication)
	api.GET("/applications/:id", s.GetApplicationByID)
	api.PUT("/applications/:id/status", s.SetApplicationStatus)
	api.POST("/applications/:id/notes", s.AddApplicationNote)
	api.POST("/applications/bulk/status", s.authorizeAction(authorization.ObjectApplication, authorization.ActionApplicationBulkStatus), s.BulkSetApplicationStatus)

	// -------- Reference --------
	api.GET("/positions", s.ListPositions)

	// -------- Team --------
	api.GET("/users", s.ListUsers)
	api.POST("/users", s.authorizeAction(authorization.ObjectTeam, authorization.ActionTeamManage), s.CreateUser)
	api.GET("/users/:id", s.GetUserByID)

	// -------- Analytics --------
	api.GET("/analytics", s.authorizeAction(authorization.ObjectAnalytics, authorization.ActionAnalyticsView), s.GetAnalyticsSummary)

	// -------- Audit --------
	api.GET("/audit-logs", s.authorizeAction(authorization.ObjectAuditLog, authorization.ActionAuditLogView), s.ListAuditLogs)
}
