package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lovepattern-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lovepattern-backend/internal/http/middleware"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

const serviceName = "lovepattern-backend"

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	CORSOrigins    []string
	TracingEnabled bool

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler   *httpH.HealthHandler
	CatalogHandler  *httpH.CatalogHandler
	SessionHandler  *httpH.SessionHandler
	IntakeHandler   *httpH.IntakeHandler
	ReportHandler   *httpH.ReportHandler
	RealtimeHandler *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(serviceName))
	}
	r.Use(httpMW.AttachRequestData())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.CatalogHandler != nil {
			api.GET("/catalog/products", cfg.CatalogHandler.Products)
			api.GET("/catalog/issues", cfg.CatalogHandler.Issues)
		}
		if cfg.SessionHandler != nil {
			api.POST("/session", cfg.SessionHandler.Create)
		}
	}

	session := api.Group("/session")
	{
		if cfg.AuthMiddleware != nil {
			session.Use(cfg.AuthMiddleware.RequireSession())
		} else {
			session.Use(func(c *gin.Context) {
				c.AbortWithStatus(http.StatusUnauthorized)
			})
		}

		if cfg.SessionHandler != nil {
			session.GET("", cfg.SessionHandler.Get)
			session.DELETE("", cfg.SessionHandler.End)
			session.POST("/navigate", cfg.SessionHandler.Navigate)
			session.POST("/products/select", cfg.SessionHandler.SelectProduct)
			session.POST("/auth/complete", cfg.SessionHandler.CompleteAuth)
			session.POST("/auth/logout", cfg.SessionHandler.Logout)
			session.POST("/payment/complete", cfg.SessionHandler.CompletePayment)
			session.POST("/notice/dismiss", cfg.SessionHandler.DismissNotice)
		}

		// Intake wizard
		if cfg.IntakeHandler != nil {
			session.GET("/intake", cfg.IntakeHandler.Get)
			session.PATCH("/intake", cfg.IntakeHandler.Patch)
			session.POST("/intake/photo", cfg.IntakeHandler.UploadPhoto)
			session.GET("/intake/photo/preview/:preview_id", cfg.IntakeHandler.Preview)
			session.POST("/intake/next", cfg.IntakeHandler.Next)
			session.POST("/intake/back", cfg.IntakeHandler.Back)
			session.POST("/intake/submit", cfg.IntakeHandler.Submit)
		}

		// Report
		if cfg.ReportHandler != nil {
			session.POST("/report/view", cfg.ReportHandler.View)
			session.GET("/report", cfg.ReportHandler.Get)
			session.GET("/report/photo/:report_id", cfg.ReportHandler.Photo)
			session.GET("/report/export", cfg.ReportHandler.Export)
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			session.GET("/events", cfg.RealtimeHandler.Stream)
		}
	}

	return r
}
