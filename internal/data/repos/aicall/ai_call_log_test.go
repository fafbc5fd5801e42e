package aicall

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/lovepattern-backend/internal/data/db"
	types "github.com/yungbote/lovepattern-backend/internal/domain/aicall"
	"github.com/yungbote/lovepattern-backend/internal/platform/logger"
)

func TestAICallLogRepoCreateAndList(t *testing.T) {
	log := logger.NewNop()
	theDB, err := db.Open(log, db.DriverSQLite, filepath.Join(t.TempDir(), "calls.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close(theDB) })

	repo := NewAICallLogRepo(theDB, log)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	entries := []*types.AICallLog{
		{SubmissionID: "sub-1", CallType: types.CallVision, Provider: "gemini", Success: false, Fallback: true, CreatedAt: base},
		{SubmissionID: "sub-1", CallType: types.CallNarrative, Provider: "gemini", Success: true, CreatedAt: base.Add(time.Second)},
		{SubmissionID: "sub-2", CallType: types.CallNarrative, Provider: "openai", Success: true, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	recent, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 || recent[0].SubmissionID != "sub-2" {
		t.Fatalf("want newest first, got %d entries (first=%v)", len(recent), recent[0].SubmissionID)
	}

	bySub, err := repo.ListBySubmission(ctx, "sub-1")
	if err != nil {
		t.Fatalf("list by submission: %v", err)
	}
	if len(bySub) != 2 || bySub[0].CallType != types.CallVision || !bySub[0].Fallback {
		t.Fatalf("unexpected submission rows: %+v", bySub)
	}
}

func TestOpenWithoutDriverIsDisabled(t *testing.T) {
	theDB, err := db.Open(logger.NewNop(), "", "")
	if err != nil || theDB != nil {
		t.Fatalf("want nil db and nil error got db=%v err=%v", theDB, err)
	}
}
