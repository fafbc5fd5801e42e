package ctxutil

import "context"

type requestDataKey struct{}

// RequestData is the per-request metadata carried on the context by the HTTP
// middleware and read by services and loggers further down.
type RequestData struct {
	TraceID   string
	RequestID string
	SessionID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}

// SessionID returns the authenticated session id, or "" outside a session.
func SessionID(ctx context.Context) string {
	if rd := GetRequestData(ctx); rd != nil {
		return rd.SessionID
	}
	return ""
}

// LogFields returns trace_id/request_id pairs suitable for logger kv lists.
func LogFields(ctx context.Context) []interface{} {
	rd := GetRequestData(ctx)
	if rd == nil {
		return nil
	}
	out := make([]interface{}, 0, 4)
	if rd.TraceID != "" {
		out = append(out, "trace_id", rd.TraceID)
	}
	if rd.RequestID != "" {
		out = append(out, "request_id", rd.RequestID)
	}
	return out
}
