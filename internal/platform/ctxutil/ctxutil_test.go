package ctxutil

import (
	"context"
	"testing"
)

func TestRequestDataRoundTrip(t *testing.T) {
	ctx := context.Background()
	if SessionID(ctx) != "" {
		t.Fatalf("empty context should have no session")
	}
	ctx = WithRequestData(ctx, &RequestData{TraceID: "t1", RequestID: "r1", SessionID: "s1"})
	if got := SessionID(ctx); got != "s1" {
		t.Fatalf("session: want=s1 got=%q", got)
	}
	fields := LogFields(ctx)
	if len(fields) != 4 || fields[1] != "t1" || fields[3] != "r1" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}
