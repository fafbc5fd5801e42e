package gcpvision

import (
	"fmt"
	"math"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/lovepattern-backend/internal/domain/pattern"
)

func likely(l visionpb.Likelihood) bool {
	return l == visionpb.Likelihood_LIKELY || l == visionpb.Likelihood_VERY_LIKELY
}

func landmark(face *visionpb.FaceAnnotation, t visionpb.FaceAnnotation_Landmark_Type) (float64, float64, bool) {
	for _, lm := range face.GetLandmarks() {
		if lm.GetType() == t && lm.GetPosition() != nil {
			return float64(lm.GetPosition().GetX()), float64(lm.GetPosition().GetY()), true
		}
	}
	return 0, 0, false
}

func percent(v float64, size int) float64 {
	if size <= 0 {
		return 50
	}
	p := v / float64(size) * 100
	p = math.Max(0, math.Min(100, p))
	return math.Round(p*10) / 10
}

func position(x, y float64, ok bool, w, h int, fallback pattern.Position) pattern.Position {
	if !ok {
		return fallback
	}
	return pattern.Position{X: percent(x, w), Y: percent(y, h)}
}

// FaceToVision maps one face annotation onto the three-feature read.
// Landmarks are in pixels and become percentages of the image size; a
// missing landmark keeps the fallback coordinate for that feature.
func FaceToVision(face *visionpb.FaceAnnotation, width, height int) *pattern.VisionAnalysis {
	fb := pattern.FallbackVision()

	lx, ly, lok := landmark(face, visionpb.FaceAnnotation_Landmark_LEFT_EYE)
	rx, ry, rok := landmark(face, visionpb.FaceAnnotation_Landmark_RIGHT_EYE)
	ex, ey, eok := (lx+rx)/2, (ly+ry)/2, lok && rok
	nx, ny, nok := landmark(face, visionpb.FaceAnnotation_Landmark_NOSE_TIP)
	mx, my, mok := landmark(face, visionpb.FaceAnnotation_Landmark_MOUTH_CENTER)

	joy := likely(face.GetJoyLikelihood())
	sorrow := likely(face.GetSorrowLikelihood())
	anger := likely(face.GetAngerLikelihood())
	surprise := likely(face.GetSurpriseLikelihood())

	eyeWords := []string{"Steady"}
	switch {
	case surprise:
		eyeWords = []string{"Alert", "Open"}
	case joy:
		eyeWords = []string{"Warm", "Bright"}
	case sorrow:
		eyeWords = []string{"Deep", "Reserved"}
	}

	noseWords := []string{"Straight"}
	if math.Abs(float64(face.GetPanAngle())) > 10 {
		noseWords = append(noseWords, "Angled")
	} else {
		noseWords = append(noseWords, "Centered")
	}

	mouthWords := []string{"Neutral"}
	switch {
	case joy:
		mouthWords = []string{"Smiling", "Soft"}
	case anger:
		mouthWords = []string{"Tense", "Firm"}
	}

	vibe := "Composed"
	switch {
	case joy:
		vibe = "Warm"
	case anger:
		vibe = "Intense"
	case surprise:
		vibe = "Open"
	case sorrow:
		vibe = "Reserved"
	}

	return &pattern.VisionAnalysis{
		Eyes: pattern.FacialFeature{
			Position:           position(ex, ey, eok, width, height, fb.Eyes.Position),
			ImpressionKeywords: eyeWords,
			Notes:              fmt.Sprintf("Eye line tilted %.1f degrees from horizontal.", face.GetRollAngle()),
		},
		Nose: pattern.FacialFeature{
			Position:           position(nx, ny, nok, width, height, fb.Nose.Position),
			ImpressionKeywords: noseWords,
			Notes:              fmt.Sprintf("Head turned %.1f degrees from the camera axis.", face.GetPanAngle()),
		},
		Mouth: pattern.FacialFeature{
			Position:           position(mx, my, mok, width, height, fb.Mouth.Position),
			ImpressionKeywords: mouthWords,
			Notes:              fmt.Sprintf("Head tilted %.1f degrees up or down.", face.GetTiltAngle()),
		},
		OverallVibe: vibe,
	}
}
