package pattern

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type FacialFeature struct {
	Position           Position `json:"position"`
	ImpressionKeywords []string `json:"impression_keywords"`
	Notes              string   `json:"notes"`
}

// VisionAnalysis is the structured face read produced by the vision call.
// Positions are percentages of the image width/height.
type VisionAnalysis struct {
	Eyes        FacialFeature `json:"eyes"`
	Nose        FacialFeature `json:"nose"`
	Mouth       FacialFeature `json:"mouth"`
	OverallVibe string        `json:"overall_vibe"`
}

// FallbackVision is substituted whenever the vision call fails.
func FallbackVision() *VisionAnalysis {
	return &VisionAnalysis{
		Eyes: FacialFeature{
			Position:           Position{X: 50, Y: 40},
			ImpressionKeywords: []string{"Clear"},
			Notes:              "Observant",
		},
		Nose: FacialFeature{
			Position:           Position{X: 50, Y: 55},
			ImpressionKeywords: []string{"Straight"},
			Notes:              "Principled",
		},
		Mouth: FacialFeature{
			Position:           Position{X: 50, Y: 70},
			ImpressionKeywords: []string{"Firm"},
			Notes:              "Articulate",
		},
		OverallVibe: "Composed",
	}
}
