package extractor

import "fmt"

// NotFoundError indicates the referenced document does not exist
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("File not found: %s", e.Path)
}

// UnsupportedFormatError indicates a file extension outside the supported set
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("Unsupported file type: %s", e.Extension)
}

// ExtractionError wraps an underlying document parse failure
type ExtractionError struct {
	Path   string
	Format Format
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s (%s): %v", e.Path, e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
