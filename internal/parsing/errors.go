package parsing

import "fmt"

// APICallError represents a transient failure of the model call
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError indicates the model response did not conform to the resume
// schema after both the strict and lenient parse attempts
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// EmptyTextError indicates there was no usable text to extract from
type EmptyTextError struct{}

func (e *EmptyTextError) Error() string {
	return "resume text cannot be empty"
}

// ExtractionFailedError indicates the retry budget was exhausted.
// Cause carries the last underlying error.
type ExtractionFailedError struct {
	Attempts int
	Cause    error
}

func (e *ExtractionFailedError) Error() string {
	return fmt.Sprintf("failed to extract resume data after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *ExtractionFailedError) Unwrap() error {
	return e.Cause
}
