package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, env map[string]string) Config {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("AI_CALL_LOG_DRIVER", "")
	t.Setenv("REPORT_FONT_PATH", "")
	for k, v := range env {
		t.Setenv(k, v)
	}
	v, err := NewViper("")
	require.NoError(t, err)
	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	return cfg
}

func TestNewRunsWithoutCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tc := range []struct {
		provider string
		missing  string
	}{
		{ProviderGemini, "GEMINI_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
	} {
		t.Run(tc.provider, func(t *testing.T) {
			cfg := testConfig(t, map[string]string{"AI_PROVIDER": tc.provider})
			a, err := New(context.Background(), cfg)
			require.NoError(t, err)
			require.Nil(t, a.Clients.AI)
			require.True(t, strings.Contains(a.Clients.AIMissing, tc.missing), a.Clients.AIMissing)
			require.False(t, a.Services.Exporter.PDFAvailable())

			require.NoError(t, a.Start())
			rec := httptest.NewRecorder()
			a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			require.NoError(t, a.Shutdown(ctx))
		})
	}
}

func TestNewFailsOnUnreadableFont(t *testing.T) {
	cfg := testConfig(t, map[string]string{"REPORT_FONT_PATH": "/nonexistent/font.ttf"})
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "REPORT_FONT_PATH")
}
