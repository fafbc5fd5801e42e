package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxInboundIDLen = 128
)

// AttachRequestData puts trace and request ids on the request context and
// echoes them back. An active span (otelgin runs first) beats a client
// supplied trace id; client ids that fail cleanID are replaced.
func AttachRequestData() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())

		traceID := ""
		if sc := span.SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else if id, ok := cleanID(c.GetHeader(headerTraceID)); ok {
			traceID = id
		} else {
			traceID = uuid.NewString()
		}
		reqID, ok := cleanID(c.GetHeader(headerRequestID))
		if !ok {
			reqID = uuid.NewString()
		}
		span.SetAttributes(attribute.String("request.id", reqID))

		rd := &ctxutil.RequestData{TraceID: traceID, RequestID: reqID}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		h := c.Writer.Header()
		h.Set(headerTraceID, traceID)
		h.Set(headerRequestID, reqID)
		c.Next()
	}
}

// cleanID accepts ids of printable ASCII without spaces, up to
// maxInboundIDLen bytes. Anything else would end up verbatim in log lines.
func cleanID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxInboundIDLen {
		return "", false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return "", false
		}
	}
	return id, true
}
