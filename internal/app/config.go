package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/lovepattern-backend/internal/services"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	VisionProviderLLM = "llm"
	VisionProviderGCP = "gcp"

	StoreMemory = "memory"
	StoreRedis  = "redis"
)

type Config struct {
	Port    string
	LogMode string

	AIProvider           string
	GeminiAPIKey         string
	GeminiVisionModel    string
	GeminiNarrativeModel string
	OpenAIAPIKey         string
	OpenAIBaseURL        string
	OpenAIModel          string
	VisionProvider       string
	GoogleCredentials    string
	GoogleCredentialJSON string
	AIHTTPTimeout        time.Duration

	AnalysisMaxConcurrent int

	SessionStore    string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionTTL      time.Duration
	JWTSecretKey    string
	SessionTokenTTL time.Duration

	AICallLogDriver string
	AICallLogDSN    string

	ReportFontPath  string
	ExportCacheSize int
	PhotoMaxBytes   int64

	CORSOrigins []string
	OtelEnabled bool
}

// NewViper returns a viper instance with every key's default set and the
// environment bound. A config file, when given, is read on top.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("AI_PROVIDER", ProviderGemini)
	v.SetDefault("GEMINI_VISION_MODEL", "gemini-2.5-flash-image")
	v.SetDefault("GEMINI_NARRATIVE_MODEL", "gemini-3-flash-preview")
	v.SetDefault("VISION_PROVIDER", VisionProviderLLM)
	v.SetDefault("AI_HTTP_TIMEOUT", "120s")
	v.SetDefault("ANALYSIS_MAX_CONCURRENT", 8)
	v.SetDefault("SESSION_STORE", StoreMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_TTL", services.DefaultSessionTTL.String())
	v.SetDefault("SESSION_TOKEN_TTL", "24h")
	v.SetDefault("EXPORT_CACHE_SIZE", 32)
	v.SetDefault("PHOTO_MAX_BYTES", services.DefaultPhotoMaxBytes)
	v.SetDefault("OTEL_ENABLED", false)

	// Keys without a default are only visible to AutomaticEnv once bound.
	for _, key := range []string{
		"GEMINI_API_KEY", "API_KEY",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL",
		"GOOGLE_APPLICATION_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS_JSON",
		"REDIS_PASSWORD", "JWT_SECRET_KEY",
		"AI_CALL_LOG_DRIVER", "AI_CALL_LOG_DSN",
		"REPORT_FONT_PATH", "CORS_ORIGINS",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:    strings.TrimSpace(v.GetString("PORT")),
		LogMode: strings.TrimSpace(v.GetString("LOG_MODE")),

		AIProvider:           strings.ToLower(strings.TrimSpace(v.GetString("AI_PROVIDER"))),
		GeminiAPIKey:         firstNonEmpty(v.GetString("GEMINI_API_KEY"), v.GetString("API_KEY")),
		GeminiVisionModel:    strings.TrimSpace(v.GetString("GEMINI_VISION_MODEL")),
		GeminiNarrativeModel: strings.TrimSpace(v.GetString("GEMINI_NARRATIVE_MODEL")),
		OpenAIAPIKey:         strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIBaseURL:        strings.TrimSpace(v.GetString("OPENAI_BASE_URL")),
		OpenAIModel:          strings.TrimSpace(v.GetString("OPENAI_MODEL")),
		VisionProvider:       strings.ToLower(strings.TrimSpace(v.GetString("VISION_PROVIDER"))),
		GoogleCredentials:    strings.TrimSpace(v.GetString("GOOGLE_APPLICATION_CREDENTIALS")),
		GoogleCredentialJSON: strings.TrimSpace(v.GetString("GOOGLE_APPLICATION_CREDENTIALS_JSON")),
		AIHTTPTimeout:        v.GetDuration("AI_HTTP_TIMEOUT"),

		AnalysisMaxConcurrent: v.GetInt("ANALYSIS_MAX_CONCURRENT"),

		SessionStore:    strings.ToLower(strings.TrimSpace(v.GetString("SESSION_STORE"))),
		RedisAddr:       strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
		JWTSecretKey:    v.GetString("JWT_SECRET_KEY"),
		SessionTokenTTL: v.GetDuration("SESSION_TOKEN_TTL"),

		AICallLogDriver: strings.ToLower(strings.TrimSpace(v.GetString("AI_CALL_LOG_DRIVER"))),
		AICallLogDSN:    strings.TrimSpace(v.GetString("AI_CALL_LOG_DSN")),

		ReportFontPath:  strings.TrimSpace(v.GetString("REPORT_FONT_PATH")),
		ExportCacheSize: v.GetInt("EXPORT_CACHE_SIZE"),
		PhotoMaxBytes:   v.GetInt64("PHOTO_MAX_BYTES"),

		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		OtelEnabled: v.GetBool("OTEL_ENABLED"),
	}

	switch cfg.AIProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return Config{}, fmt.Errorf("AI_PROVIDER must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, cfg.AIProvider)
	}
	switch cfg.VisionProvider {
	case VisionProviderLLM, VisionProviderGCP:
	default:
		return Config{}, fmt.Errorf("VISION_PROVIDER must be %q or %q, got %q", VisionProviderLLM, VisionProviderGCP, cfg.VisionProvider)
	}
	switch cfg.SessionStore {
	case StoreMemory, StoreRedis:
	default:
		return Config{}, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, cfg.SessionStore)
	}
	if cfg.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.PhotoMaxBytes <= 0 {
		return Config{}, fmt.Errorf("PHOTO_MAX_BYTES must be positive")
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
