package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	httpserver "github.com/yungbote/lovepattern-backend/internal/http"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/realtime"
)

const janitorInterval = time.Minute

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services
	SSEHub   *realtime.SSEHub
	Server   *httpserver.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "lovepattern-backend",
		Environment: cfg.LogMode,
	})

	metrics := observability.NewMetrics(nil)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	ssehub := realtime.NewSSEHub(log)

	serviceset, err := wireServices(log, cfg, clients, metrics, ssehub)
	if err != nil {
		clients.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, cfg, clients, serviceset, ssehub)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Clients:      clients,
		Services:     serviceset,
		SSEHub:       ssehub,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background loops: session expiry, the redis SSE
// forwarder and the redis health gauge.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.Services.Sessions.StartJanitor(ctx, janitorInterval)
	if a.Clients.SSEBus != nil {
		// Sessions ended on another replica still have exports cached here.
		exporter := a.Services.Exporter
		forward := func(m realtime.SSEMessage) {
			if m.Event == realtime.SSEEventSessionEnded {
				exporter.EvictSession(m.Channel)
			}
			a.SSEHub.Deliver(m)
		}
		if err := a.Clients.SSEBus.StartForwarder(ctx, forward); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis, 0)
	}
	return nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("HTTP server listening", "addr", addr)
	return a.Server.Run(addr)
}

// Shutdown stops accepting requests, lets in-flight analyses finish within
// ctx, then releases clients.
func (a *App) Shutdown(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}

	done := make(chan struct{})
	go func() {
		a.Services.Sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, fmt.Errorf("waiting for analyses: %w", ctx.Err()))
	}

	a.Clients.Close()
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("otel shutdown: %w", err))
		}
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
