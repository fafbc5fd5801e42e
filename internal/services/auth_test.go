package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/lovepattern-backend/internal/platform/ctxutil"
)

func TestAuthServiceRoundTrip(t *testing.T) {
	svc, err := NewAuthService(testLogger(t), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	tok, err := svc.IssueToken("session-1")
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	base := ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{RequestID: "req-1"})
	ctx, err := svc.SetContextFromToken(base, tok)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	if got := ctxutil.SessionID(ctx); got != "session-1" {
		t.Fatalf("session id: want=session-1 got=%q", got)
	}
	if rd := ctxutil.GetRequestData(ctx); rd.RequestID != "req-1" {
		t.Fatalf("request data should be preserved: %+v", rd)
	}
	if ctxutil.SessionID(base) != "" {
		t.Fatalf("parent context must not be mutated")
	}
}

func TestAuthServiceRejects(t *testing.T) {
	svc, _ := NewAuthService(testLogger(t), "test-secret", time.Minute)
	other, _ := NewAuthService(testLogger(t), "other-secret", time.Minute)
	foreign, _ := other.IssueToken("session-1")

	if _, err := svc.SetContextFromToken(context.Background(), foreign); err == nil {
		t.Fatalf("token signed with another key must fail")
	}
	if _, err := svc.SetContextFromToken(context.Background(), ""); err == nil {
		t.Fatalf("empty token must fail")
	}

	impl := svc.(*authService)
	tok, _ := svc.IssueToken("session-1")
	impl.timeNow = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, err := svc.SetContextFromToken(context.Background(), tok); err == nil {
		t.Fatalf("expired token must fail")
	}
}

func TestAuthServiceGeneratesKeyWhenUnset(t *testing.T) {
	a, _ := NewAuthService(testLogger(t), "", 0)
	b, _ := NewAuthService(testLogger(t), "", 0)
	if a.GetTokenTTL() != 24*time.Hour {
		t.Fatalf("default ttl: %v", a.GetTokenTTL())
	}
	tok, _ := a.IssueToken("s")
	if _, err := b.SetContextFromToken(context.Background(), tok); err == nil {
		t.Fatalf("per-process keys must differ")
	}
}
