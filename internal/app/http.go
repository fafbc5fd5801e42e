package app

import (
	"context"

	httpserver "github.com/yungbote/lovepattern-backend/internal/http"
	httpH "github.com/yungbote/lovepattern-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lovepattern-backend/internal/http/middleware"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/realtime"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health   *httpH.HealthHandler
	Catalog  *httpH.CatalogHandler
	Session  *httpH.SessionHandler
	Intake   *httpH.IntakeHandler
	Report   *httpH.ReportHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, cfg Config, clients Clients, services Services, sseHub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	var ping func(ctx context.Context) error
	if clients.Redis != nil {
		rdb := clients.Redis
		ping = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return Handlers{
		Health:   httpH.NewHealthHandler(ping),
		Catalog:  httpH.NewCatalogHandler(),
		Session:  httpH.NewSessionHandler(log, services.Sessions, services.Auth),
		Intake:   httpH.NewIntakeHandler(log, services.Sessions, cfg.PhotoMaxBytes),
		Report:   httpH.NewReportHandler(log, services.Sessions, services.Exporter),
		Realtime: httpH.NewRealtimeHandler(log, sseHub, services.Sessions),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *httpserver.Server {
	return httpserver.NewServer(httpserver.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		CORSOrigins:     cfg.CORSOrigins,
		TracingEnabled:  cfg.OtelEnabled,
		AuthMiddleware:  middleware.Auth,
		HealthHandler:   handlers.Health,
		CatalogHandler:  handlers.Catalog,
		SessionHandler:  handlers.Session,
		IntakeHandler:   handlers.Intake,
		ReportHandler:   handlers.Report,
		RealtimeHandler: handlers.Realtime,
	})
}
