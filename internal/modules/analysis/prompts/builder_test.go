package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
	"github.com/yungbote/lovepattern-backend/internal/domain/pattern/patterntest"
)

func TestNarrativeRequestWithoutPhotoOrBirthTime(t *testing.T) {
	in := patterntest.Input()

	vr, nr, err := BuildRequests(in, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if vr != nil {
		t.Fatalf("vision request should be skipped without a photo")
	}
	user := nr.Prompt.User
	if !strings.Contains(user, UnknownBirthTime) {
		t.Fatalf("prompt should carry the unknown birth time sentinel:\n%s", user)
	}
	if !strings.Contains(user, NoVisionData) {
		t.Fatalf("prompt should carry the no-vision marker:\n%s", user)
	}
	if strings.Contains(user, visionOpenTag) || strings.Contains(user, "overall_vibe") {
		t.Fatalf("prompt must not contain a vision block:\n%s", user)
	}
	if !strings.Contains(user, "I always meet similar types of people.") || !strings.Contains(user, "1990-05-14") {
		t.Fatalf("prompt should quote the issue and birth date:\n%s", user)
	}
}

func TestNarrativeRequestEmbedsVisionAndTime(t *testing.T) {
	in := patterntest.Input()
	in.BirthTime = "07:30"
	nr, err := BuildNarrativeRequest(in, pattern.FallbackVision())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	user := nr.Prompt.User
	if strings.Contains(user, UnknownBirthTime) || !strings.Contains(user, "Birth time: 07:30") {
		t.Fatalf("birth time not rendered:\n%s", user)
	}
	if !strings.Contains(user, visionOpenTag) || !strings.Contains(user, `"overall_vibe": "Composed"`) {
		t.Fatalf("vision block not rendered:\n%s", user)
	}
	if strings.Contains(user, NoVisionData) {
		t.Fatalf("no-vision marker should be absent")
	}
}

func TestNarrativeSystemPromptContract(t *testing.T) {
	nr, err := BuildNarrativeRequest(patterntest.Input(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	sys := nr.Prompt.System
	for _, want := range append(SectionTitles(), DefaultLanguage, "150-200 words", `"roadmap_layer"`) {
		if !strings.Contains(sys, want) {
			t.Fatalf("system prompt missing %q", want)
		}
	}
	if nr.Prompt.SchemaName != "analysis_result" || nr.Prompt.Schema == nil {
		t.Fatalf("schema not attached: %q", nr.Prompt.SchemaName)
	}
}

func TestNarrativeRequestRequiresIssue(t *testing.T) {
	in := patterntest.Input()
	in.IssueType = " "
	if _, err := BuildNarrativeRequest(in, nil); err == nil || !strings.Contains(err.Error(), "issue_type required") {
		t.Fatalf("want issue_type required got=%v", err)
	}
}

func TestVisionRequest(t *testing.T) {
	in := patterntest.Input()
	if _, err := BuildVisionRequest(in); !errors.Is(err, pattern.ErrNoPhoto) {
		t.Fatalf("want ErrNoPhoto got=%v", err)
	}
	in.Photo = &pattern.Photo{Data: patterntest.PNG, MIMEType: "image/png"}
	vr, err := BuildVisionRequest(in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if vr.MIMEType != "image/png" || len(vr.Image) != len(patterntest.PNG) {
		t.Fatalf("image not attached: mime=%s len=%d", vr.MIMEType, len(vr.Image))
	}
	if !strings.Contains(vr.Prompt.User, "overall_vibe") || vr.Prompt.SchemaName != "vision_analysis" {
		t.Fatalf("unexpected vision prompt: %+v", vr.Prompt)
	}
}

func TestFingerprintChangesWithInput(t *testing.T) {
	a, _ := BuildNarrativeRequest(patterntest.Input(), nil)
	in := patterntest.Input()
	in.Gender = pattern.GenderMale
	b, _ := BuildNarrativeRequest(in, nil)
	if a.Prompt.Fingerprint() == b.Prompt.Fingerprint() {
		t.Fatalf("fingerprints should differ")
	}
	again, _ := BuildNarrativeRequest(patterntest.Input(), nil)
	if a.Prompt.Fingerprint() != again.Prompt.Fingerprint() {
		t.Fatalf("fingerprint should be deterministic")
	}
}
