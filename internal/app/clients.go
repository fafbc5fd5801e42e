package app

import (
	"context"
	"fmt"
	"io"

	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/yungbote/lovepattern-backend/internal/clients/redis"
	"github.com/yungbote/lovepattern-backend/internal/data/db"
	"github.com/yungbote/lovepattern-backend/internal/platform/gcpvision"
	"github.com/yungbote/lovepattern-backend/internal/platform/gemini"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
	"github.com/yungbote/lovepattern-backend/internal/platform/openai"
	"github.com/yungbote/lovepattern-backend/internal/realtime/bus"
	"github.com/yungbote/lovepattern-backend/internal/services"
)

type Clients struct {
	Redis  *goredis.Client
	SSEBus bus.Bus
	DB     *gorm.DB

	// AI is nil when no credential is configured; AIMissing says why.
	AI        services.AIClient
	AIMissing string

	closers []io.Closer
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var c Clients

	// Redis
	if cfg.SessionStore == StoreRedis {
		rdb, err := redis.NewClient(ctx, log, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		c.Redis = rdb
		c.closers = append(c.closers, rdb)
		b, err := bus.NewRedisBus(log, rdb, bus.DefaultChannel)
		if err != nil {
			c.Close()
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		c.SSEBus = b
	}

	// AI call log
	theDB, err := db.Open(log, cfg.AICallLogDriver, cfg.AICallLogDSN)
	if err != nil {
		c.Close()
		return Clients{}, fmt.Errorf("init ai call log: %w", err)
	}
	c.DB = theDB

	// AI providers
	if err := c.wireAI(ctx, log, cfg); err != nil {
		c.Close()
		return Clients{}, err
	}
	return c, nil
}

// wireAI picks the narrative provider and, with VISION_PROVIDER=gcp, puts
// Cloud Vision face detection in front of it. A missing credential is not an
// error: the server runs and every submission fails with a configuration
// error.
func (c *Clients) wireAI(ctx context.Context, log *logger.Logger, cfg Config) error {
	var narrative services.AIClient
	switch cfg.AIProvider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			c.AIMissing = "OPENAI_API_KEY is not set"
			log.Warn("AI provider credential missing; analyses will fail", "provider", cfg.AIProvider)
			return nil
		}
		oc, err := openai.NewClient(log, openai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.AIHTTPTimeout,
		})
		if err != nil {
			return fmt.Errorf("init openai client: %w", err)
		}
		narrative = oc
	default:
		if cfg.GeminiAPIKey == "" {
			c.AIMissing = "GEMINI_API_KEY (or API_KEY) is not set"
			log.Warn("AI provider credential missing; analyses will fail", "provider", cfg.AIProvider)
			return nil
		}
		gc, err := gemini.NewClient(ctx, log, gemini.Config{
			APIKey:         cfg.GeminiAPIKey,
			VisionModel:    cfg.GeminiVisionModel,
			NarrativeModel: cfg.GeminiNarrativeModel,
			Timeout:        cfg.AIHTTPTimeout,
		})
		if err != nil {
			return fmt.Errorf("init gemini client: %w", err)
		}
		narrative = gc
	}

	if cfg.VisionProvider != VisionProviderGCP {
		c.AI = narrative
		return nil
	}
	var opts []option.ClientOption
	switch {
	case cfg.GoogleCredentialJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.GoogleCredentialJSON)))
	case cfg.GoogleCredentials != "":
		opts = append(opts, option.WithCredentialsFile(cfg.GoogleCredentials))
	}
	vc, err := gcpvision.NewClient(ctx, log, opts...)
	if err != nil {
		return fmt.Errorf("init cloud vision client: %w", err)
	}
	c.closers = append(c.closers, vc)
	c.AI = services.ComposeAIClient(vc, narrative)
	return nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
	if c.DB != nil {
		_ = db.Close(c.DB)
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i].Close()
	}
	c.closers = nil
}
