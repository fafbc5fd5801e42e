package pattern

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrProductNotFound   = errors.New("product not found")
	ErrIssueNotFound     = errors.New("issue not found")
	ErrNoReport          = errors.New("no report generated yet")
	ErrNoPhoto           = errors.New("no photo uploaded")
	ErrEmptyResponse     = errors.New("no analysis generated")
)

// ConfigurationError means the AI service cannot be reached at all because a
// credential or provider is missing. Raised before any network call.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// VisionServiceError is any failure of the optional face read. Callers
// recover from it with FallbackVision.
type VisionServiceError struct {
	Err error
}

func (e *VisionServiceError) Error() string { return fmt.Sprintf("vision service: %v", e.Err) }
func (e *VisionServiceError) Unwrap() error { return e.Err }

// NarrativeServiceError is a failed report generation: transport, provider
// error, empty output or undecodable JSON.
type NarrativeServiceError struct {
	Err error
}

func (e *NarrativeServiceError) Error() string { return fmt.Sprintf("narrative service: %v", e.Err) }
func (e *NarrativeServiceError) Unwrap() error { return e.Err }

// SchemaValidationError lists every field of a decoded payload that is
// missing or empty.
type SchemaValidationError struct {
	Target   string
	Problems []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%s failed schema validation: %s", e.Target, strings.Join(e.Problems, "; "))
}

// ValidationError blocks a wizard step or a malformed field.
type ValidationError struct {
	Step   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Step > 0 {
		return fmt.Sprintf("step %d: %s %s", e.Step, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
