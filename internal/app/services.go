package app

import (
	"fmt"
	"os"

	"github.com/yungbote/lovepattern-backend/internal/clients/redis"
	aicallrepo "github.com/yungbote/lovepattern-backend/internal/data/repos/aicall"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/export"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/realtime"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

type Services struct {
	Auth     services.AuthService
	Analysis services.AnalysisService
	Sessions services.SessionService
	Exporter *export.Exporter
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, metrics *observability.Metrics, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.SessionTokenTTL)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	calls := services.NopAICallRecorder()
	if clients.DB != nil {
		calls = services.NewAICallRecorder(log, aicallrepo.NewAICallLogRepo(clients.DB, log))
	}
	analysis := services.NewAnalysisService(log, clients.AI, metrics, calls, services.AnalysisConfig{
		MissingReason: clients.AIMissing,
		MaxConcurrent: int64(cfg.AnalysisMaxConcurrent),
	})

	var font []byte
	if cfg.ReportFontPath != "" {
		font, err = os.ReadFile(cfg.ReportFontPath)
		if err != nil {
			return Services{}, fmt.Errorf("read REPORT_FONT_PATH: %w", err)
		}
	}
	exporter, err := export.NewExporter(log, export.Config{
		FontTTF:   font,
		CacheSize: cfg.ExportCacheSize,
		CacheTTL:  cfg.SessionTTL,
	}, metrics)
	if err != nil {
		return Services{}, fmt.Errorf("init exporter: %w", err)
	}

	var store services.SessionStore
	if clients.Redis != nil {
		store = redis.NewSessionStore(clients.Redis, redis.DefaultKeyPrefix, cfg.SessionTTL)
	} else {
		store = services.NewMemorySessionStore(cfg.SessionTTL)
	}

	// With a bus every replica's hub delivers the event; the forwarder
	// started in App.Start feeds this process's hub.
	var emitter services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emitter = &services.BusEmitter{Bus: clients.SSEBus, Log: log}
	}
	// Ended sessions take their cached exports with them.
	notify := services.NewSessionNotifier(emitter, func(id string) { exporter.EvictSession(id) })
	sessions := services.NewSessionService(log, store, analysis, notify, metrics, services.SessionServiceConfig{
		PhotoMaxBytes: cfg.PhotoMaxBytes,
	})

	return Services{
		Auth:     auth,
		Analysis: analysis,
		Sessions: sessions,
		Exporter: exporter,
	}, nil
}
