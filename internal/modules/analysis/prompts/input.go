package prompts

// Input carries every value a prompt template can reference. Absent values
// render as empty strings (templates use missingkey=zero).
type Input struct {
	IssueType string
	BirthDate string
	// BirthTime is already resolved: either the clock time or UnknownBirthTime.
	BirthTime string
	Gender    string

	// VisionJSON is the indented face read; empty when HasVision is false.
	HasVision  bool
	VisionJSON string

	Language string
}
