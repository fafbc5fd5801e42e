package export

import (
	"bytes"
	"context"
	"html/template"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern/patterntest"
	"github.com/yungbote/lovepattern-backend/internal/modules/report/render"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	return log
}

func samplePhoto(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(y * 4), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExportPDF(t *testing.T) {
	reg := prometheus.NewRegistry()
	ex, err := NewExporter(testLogger(t), Config{FontTTF: goregular.TTF}, observability.NewMetrics(reg))
	require.NoError(t, err)
	require.True(t, ex.PDFAvailable())

	doc := render.Render(patterntest.Result(), "/photo")
	a, err := ex.Export(context.Background(), Request{Document: doc, Format: FormatPDF, Photo: samplePhoto(t)})
	require.NoError(t, err)
	assert.False(t, a.Fallback)
	assert.Equal(t, "LovePattern_Full_Analysis.pdf", a.FileName)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.True(t, bytes.HasPrefix(a.Body, []byte("%PDF-")), "body should be a PDF")
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "lovepattern_report_exports_total"))
}

func TestExportFallsBackWithoutFont(t *testing.T) {
	ex, err := NewExporter(testLogger(t), Config{}, nil)
	require.NoError(t, err)
	require.False(t, ex.PDFAvailable())

	doc := render.Render(patterntest.Result(), "/photo")
	a, err := ex.Export(context.Background(), Request{Document: doc, Format: FormatPDF, Photo: samplePhoto(t), PhotoMIME: "image/png"})
	require.NoError(t, err)
	assert.True(t, a.Fallback)
	assert.Equal(t, "LovePattern_Full_Analysis.html", a.FileName)

	body := string(a.Body)
	assert.Contains(t, body, "window.print()")
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, "Page 10 of 10")
	for _, title := range patterntest.Titles {
		assert.Contains(t, body, template.HTMLEscapeString(title))
	}
	assert.Equal(t, render.PageCount, strings.Count(body, `class="page"`))
}

func TestExportHTMLEscapesContent(t *testing.T) {
	ex, err := NewExporter(testLogger(t), Config{}, nil)
	require.NoError(t, err)
	r := patterntest.Result()
	r.FoundationLayer.CoreEnergy = `<script>alert(1)</script>`
	a, err := ex.Export(context.Background(), Request{Document: render.Render(r, ""), Format: FormatHTML})
	require.NoError(t, err)
	assert.False(t, a.Fallback)
	assert.NotContains(t, string(a.Body), "<script>alert(1)</script>")
}

func TestExportCachesByKey(t *testing.T) {
	ex, err := NewExporter(testLogger(t), Config{CacheSize: 2}, nil)
	require.NoError(t, err)
	req := Request{Document: render.Render(patterntest.Result(), ""), Format: FormatHTML, CacheKey: "s1:123"}
	a, err := ex.Export(context.Background(), req)
	require.NoError(t, err)
	b, err := ex.Export(context.Background(), req)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestExportEvictSession(t *testing.T) {
	ex, err := NewExporter(testLogger(t), Config{}, nil)
	require.NoError(t, err)
	doc := render.Render(patterntest.Result(), "")
	ctx := context.Background()
	for _, key := range []string{"s1:r1", "s2:r2"} {
		for _, f := range []Format{FormatHTML, FormatPDF} {
			_, err := ex.Export(ctx, Request{Document: doc, Format: f, CacheKey: key})
			require.NoError(t, err)
		}
	}

	assert.Equal(t, 2, ex.EvictSession("s1"))
	assert.Equal(t, 0, ex.EvictSession("s1"))
	assert.Equal(t, 0, ex.EvictSession(""))
	assert.ElementsMatch(t, []string{"s2:r2:html", "s2:r2:pdf"}, ex.cache.Keys())
}

func TestExportCacheTTL(t *testing.T) {
	ex, err := NewExporter(testLogger(t), Config{CacheTTL: 20 * time.Millisecond}, nil)
	require.NoError(t, err)
	req := Request{Document: render.Render(patterntest.Result(), ""), Format: FormatHTML, CacheKey: "s1:r1"}
	a, err := ex.Export(context.Background(), req)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)
	b, err := ex.Export(context.Background(), req)
	require.NoError(t, err)
	assert.NotSame(t, a, b, "expired export must be rebuilt")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	f, err = ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)
	_, err = ParseFormat("docx")
	assert.Error(t, err)
}
