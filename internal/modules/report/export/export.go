package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang/freetype/truetype"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yungbote/lovepattern-backend/internal/modules/report/render"
	"github.com/yungbote/lovepattern-backend/internal/observability"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

const (
	FileBaseName     = "LovePattern_Full_Analysis"
	defaultCacheSize = 32
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Artifact is a finished download. Fallback is set when a PDF was asked for
// and the printable HTML document was produced instead.
type Artifact struct {
	FileName    string
	ContentType string
	Body        []byte
	Fallback    bool
}

type Request struct {
	Document render.Document
	Format   Format
	// Photo is drawn on the persona page; optional.
	Photo     []byte
	PhotoMIME string
	// CacheKey identifies the report across calls. Empty disables caching.
	// Keys are "<session id>:<report id>" so EvictSession can find them.
	CacheKey string
}

type Config struct {
	// FontTTF is the TrueType font used to rasterize PDF pages. Without it
	// every PDF request falls back to the printable document.
	FontTTF   []byte
	CacheSize int
	// CacheTTL bounds how long a finished export is kept. Zero keeps it
	// until size eviction or EvictSession.
	CacheTTL time.Duration
}

type Exporter struct {
	log     *logger.Logger
	font    *truetype.Font
	cache   *expirable.LRU[string, *Artifact]
	metrics *observability.Metrics
}

func NewExporter(log *logger.Logger, cfg Config, metrics *observability.Metrics) (*Exporter, error) {
	e := &Exporter{log: log.With("service", "ReportExporter"), metrics: metrics}
	if len(cfg.FontTTF) > 0 {
		f, err := truetype.Parse(cfg.FontTTF)
		if err != nil {
			return nil, fmt.Errorf("parse report font: %w", err)
		}
		e.font = f
	} else {
		e.log.Warn("no report font configured; PDF export will use the print fallback")
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	e.cache = expirable.NewLRU[string, *Artifact](size, nil, cfg.CacheTTL)
	return e, nil
}

// EvictSession drops every cached export of the session and returns how
// many were removed.
func (e *Exporter) EvictSession(sessionID string) int {
	if sessionID == "" {
		return 0
	}
	prefix := sessionID + ":"
	n := 0
	for _, k := range e.cache.Keys() {
		if strings.HasPrefix(k, prefix) && e.cache.Remove(k) {
			n++
		}
	}
	if n > 0 {
		e.log.Debug("evicted session exports", "session_id", sessionID, "count", n)
	}
	return n
}

// PDFAvailable reports whether PDF rasterization is configured.
func (e *Exporter) PDFAvailable() bool { return e.font != nil }

func (e *Exporter) Export(ctx context.Context, req Request) (*Artifact, error) {
	if req.Format == "" {
		req.Format = FormatPDF
	}
	key := ""
	if req.CacheKey != "" {
		key = req.CacheKey + ":" + string(req.Format)
		if a, ok := e.cache.Get(key); ok {
			return a, nil
		}
	}

	a, err := e.export(ctx, req)
	e.metrics.IncExport(string(req.Format), a != nil && a.Fallback, err)
	if err != nil {
		return nil, err
	}
	if key != "" {
		e.cache.Add(key, a)
	}
	return a, nil
}

func (e *Exporter) export(ctx context.Context, req Request) (*Artifact, error) {
	switch req.Format {
	case FormatHTML:
		return e.printable(req, false)
	case FormatPDF:
		if e.font == nil {
			return e.printable(req, true)
		}
		body, err := buildPDF(ctx, e.font, req.Document, req.Photo)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.log.Warn("pdf export failed; using print fallback", "report_id", req.Document.ReportID, "error", err)
			return e.printable(req, true)
		}
		return &Artifact{
			FileName:    FileBaseName + ".pdf",
			ContentType: "application/pdf",
			Body:        body,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", req.Format)
	}
}

func (e *Exporter) printable(req Request, fallback bool) (*Artifact, error) {
	body, err := buildHTML(req.Document, req.Photo, req.PhotoMIME)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		FileName:    FileBaseName + ".html",
		ContentType: "text/html; charset=utf-8",
		Body:        body,
		Fallback:    fallback,
	}, nil
}
