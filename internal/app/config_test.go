package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("viper: %v", err)
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("port: want=8080 got=%q", cfg.Port)
	}
	if cfg.AIProvider != ProviderGemini || cfg.VisionProvider != VisionProviderLLM {
		t.Fatalf("providers: %q/%q", cfg.AIProvider, cfg.VisionProvider)
	}
	if cfg.GeminiNarrativeModel != "gemini-3-flash-preview" || cfg.GeminiVisionModel != "gemini-2.5-flash-image" {
		t.Fatalf("models: %q/%q", cfg.GeminiVisionModel, cfg.GeminiNarrativeModel)
	}
	if cfg.SessionTTL != 2*time.Hour || cfg.SessionTokenTTL != 24*time.Hour || cfg.AIHTTPTimeout != 120*time.Second {
		t.Fatalf("durations: %v %v %v", cfg.SessionTTL, cfg.SessionTokenTTL, cfg.AIHTTPTimeout)
	}
	if cfg.PhotoMaxBytes != 10<<20 || cfg.ExportCacheSize != 32 || cfg.AnalysisMaxConcurrent != 8 {
		t.Fatalf("limits: %d %d %d", cfg.PhotoMaxBytes, cfg.ExportCacheSize, cfg.AnalysisMaxConcurrent)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "legacy-key")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	v, err := NewViper("")
	if err != nil {
		t.Fatalf("viper: %v", err)
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GeminiAPIKey != "legacy-key" {
		t.Fatalf("API_KEY should feed the gemini key, got %q", cfg.GeminiAPIKey)
	}
	if cfg.SessionStore != StoreRedis || cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("store: %q ttl=%v", cfg.SessionStore, cfg.SessionTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins: %v", cfg.CORSOrigins)
	}

	t.Setenv("GEMINI_API_KEY", "primary-key")
	v, _ = NewViper("")
	cfg, _ = LoadConfig(v)
	if cfg.GeminiAPIKey != "primary-key" {
		t.Fatalf("GEMINI_API_KEY wins over API_KEY, got %q", cfg.GeminiAPIKey)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lovepattern.yaml")
	if err := os.WriteFile(path, []byte("AI_PROVIDER: openai\nOPENAI_MODEL: gpt-test\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := NewViper(path)
	if err != nil {
		t.Fatalf("viper: %v", err)
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AIProvider != ProviderOpenAI || cfg.OpenAIModel != "gpt-test" {
		t.Fatalf("file values: %q %q", cfg.AIProvider, cfg.OpenAIModel)
	}
}

func TestLoadConfigRejectsUnknownValues(t *testing.T) {
	for key, val := range map[string]string{
		"AI_PROVIDER":     "claude",
		"VISION_PROVIDER": "aws",
		"SESSION_STORE":   "disk",
		"SESSION_TTL":     "0s",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			v, err := NewViper("")
			if err != nil {
				t.Fatalf("viper: %v", err)
			}
			if _, err := LoadConfig(v); err == nil {
				t.Fatalf("%s=%s should be rejected", key, val)
			}
		})
	}
}
