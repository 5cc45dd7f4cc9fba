package parsing

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/resume-parser/internal/llm"
	"github.com/jonathan/resume-parser/internal/schemas"
	"github.com/jonathan/resume-parser/internal/types"
)

// ParseRecord converts a raw model response into a ResumeRecord using a
// two-tier strategy: a strict parse of the response as-is, then a lenient
// pass that strips markdown wrappers and salvages the outermost JSON object
// before re-validating. The retry decision stays with the caller; this
// function is pure.
func ParseRecord(raw string) (*types.ResumeRecord, error) {
	if record, err := strictParse(raw); err == nil {
		return record, nil
	}

	salvaged := extractJSONObject(llm.CleanJSONBlock(raw))
	if salvaged == "" {
		return nil, &ParseError{Message: "no JSON object found in response"}
	}

	record, err := strictParse(salvaged)
	if err != nil {
		return nil, &ParseError{Message: "response did not conform to resume schema", Cause: err}
	}
	return record, nil
}

// strictParse validates the document against the resume schema and decodes it.
func strictParse(raw string) (*types.ResumeRecord, error) {
	if err := schemas.ValidateResumeRecord(raw); err != nil {
		return nil, err
	}

	var record types.ResumeRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, err
	}

	record.Normalize()
	return &record, nil
}

// extractJSONObject returns the substring spanning the outermost JSON object,
// or "" when the text contains no braces at all.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
