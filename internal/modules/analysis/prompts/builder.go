package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

// VisionRequest is the face-read call: image bytes plus the instruction.
type VisionRequest struct {
	Prompt   Prompt
	Image    []byte
	MIMEType string
}

// NarrativeRequest is the report-generation call.
type NarrativeRequest struct {
	Prompt Prompt
}

// BuildVisionRequest fails with pattern.ErrNoPhoto when the input has no
// photo; callers skip the vision call in that case.
func BuildVisionRequest(in pattern.UserInput) (VisionRequest, error) {
	if !in.Photo.Present() {
		return VisionRequest{}, pattern.ErrNoPhoto
	}
	p, err := Build(PromptVisionFeatures, Input{})
	if err != nil {
		return VisionRequest{}, err
	}
	mime := strings.TrimSpace(in.Photo.MIMEType)
	if mime == "" {
		mime = "image/jpeg"
	}
	return VisionRequest{Prompt: p, Image: in.Photo.Data, MIMEType: mime}, nil
}

// BuildNarrativeRequest embeds the input fields and the face read (or the
// no-data marker when vision is nil) into the narrative instruction.
func BuildNarrativeRequest(in pattern.UserInput, vision *pattern.VisionAnalysis) (NarrativeRequest, error) {
	pin := Input{
		IssueType: strings.TrimSpace(in.IssueType),
		BirthDate: strings.TrimSpace(in.BirthDate),
		BirthTime: strings.TrimSpace(in.BirthTime),
		Gender:    string(in.Gender),
		Language:  DefaultLanguage,
	}
	if pin.BirthTime == "" {
		pin.BirthTime = UnknownBirthTime
	}
	if pin.Gender == "" {
		pin.Gender = string(pattern.GenderFemale)
	}
	if vision != nil {
		raw, err := json.MarshalIndent(vision, "", "  ")
		if err != nil {
			return NarrativeRequest{}, fmt.Errorf("encode vision data: %w", err)
		}
		pin.HasVision = true
		pin.VisionJSON = string(raw)
	}
	p, err := Build(PromptRelationshipNarrative, pin)
	if err != nil {
		return NarrativeRequest{}, err
	}
	return NarrativeRequest{Prompt: p}, nil
}

// BuildRequests builds both requests at once. The vision request is nil
// when there is no photo.
func BuildRequests(in pattern.UserInput, vision *pattern.VisionAnalysis) (*VisionRequest, NarrativeRequest, error) {
	var vr *VisionRequest
	if in.Photo.Present() {
		req, err := BuildVisionRequest(in)
		if err != nil {
			return nil, NarrativeRequest{}, err
		}
		vr = &req
	}
	nr, err := BuildNarrativeRequest(in, vision)
	if err != nil {
		return nil, NarrativeRequest{}, err
	}
	return vr, nr, nil
}
