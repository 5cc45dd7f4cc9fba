// Package extractor converts resume documents into plain text.
//
// Supported formats:
//   - .pdf: text extraction via pdfcpu (content stream decoding),
//     page-by-page with visible page separators
//   - .docx: Microsoft Word (archive/zip, word/document.xml),
//     body paragraphs in document order followed by table cells
//
// Extraction failures are permanent: a document that cannot be parsed is
// treated as malformed input and never retried.
package extractor

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a supported document type
type Format string

// Supported document formats
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Extractor extracts raw text from resume files
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Detect returns the document format based on the file extension
func Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", &UnsupportedFormatError{Extension: ext}
	}
}

// Detect returns the document format based on the file extension
func (e *Extractor) Detect(filename string) (Format, error) {
	return Detect(filename)
}

// Extract reads the file at path and returns its text content.
// The declared format must come from Detect; passing anything else
// yields an UnsupportedFormatError.
func (e *Extractor) Extract(path string, format Format) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", &NotFoundError{Path: path}
	}

	e.logger.Info("extracting text", "path", path, "format", format)

	var text string
	var err error
	switch format {
	case FormatPDF:
		text, err = extractPDF(path)
	case FormatDOCX:
		text, err = extractDOCX(path)
	default:
		return "", &UnsupportedFormatError{Extension: fmt.Sprintf("%q", format)}
	}

	if err != nil {
		e.logger.Error("extraction failed", "path", path, "error", err)
		return "", &ExtractionError{Path: path, Format: format, Cause: err}
	}

	e.logger.Info("extracted text", "path", path, "chars", len(text))
	return text, nil
}
