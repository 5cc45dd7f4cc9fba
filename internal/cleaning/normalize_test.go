package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\t  \n"))
}

func TestNormalize_WhitespaceCollapse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "runs of spaces and tabs",
			input: "Jane\t\tDoe   Software    Engineer",
			want:  "Jane Doe Software Engineer",
		},
		{
			name:  "paragraph breaks kept as one blank line",
			input: "Summary\n\n\n\nExperience",
			want:  "Summary\n\nExperience",
		},
		{
			name:  "windows line endings",
			input: "one\r\ntwo\r\nthree",
			want:  "one\ntwo\nthree",
		},
		{
			name:  "leading and trailing whitespace trimmed",
			input: "  \n  Jane Doe  \n  ",
			want:  "Jane Doe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Punctuation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "smart quotes to ascii",
			input: "“Team player” with ‘grit’",
			want:  `"Team player" with 'grit'`,
		},
		{
			name:  "dashes to ascii",
			input: "2019–2023 — present",
			want:  "2019-2023 - present",
		},
		{
			name:  "repeated terminal punctuation collapsed",
			input: "Great results!!! Really??? Done...",
			want:  "Great results! Really? Done.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_ArtifactLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "page number lines removed",
			input: "Experience\n2\nEducation",
			want:  "Experience\nEducation",
		},
		{
			name:  "page separator lines removed",
			input: "--- Page 1 ---\nJane Doe\n--- Page 2 ---\nEducation",
			want:  "Jane Doe\nEducation",
		},
		{
			name:  "short pipe-delimited header removed",
			input: "Jane Doe | Curriculum Vitae\nSenior Engineer",
			want:  "Senior Engineer",
		},
		{
			name:  "long line with pipe preserved",
			input: "Built data pipelines processing events through Kafka | Spark | Flink in a multi-region deployment handling billions of records daily",
			want:  "Built data pipelines processing events through Kafka | Spark | Flink in a multi-region deployment handling billions of records daily",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Boilerplate(t *testing.T) {
	input := "Jane Doe\nReferences available upon request\nDate of Birth: 1990\nSkills: Go"
	got := Normalize(input)

	assert.NotContains(t, got, "References available")
	assert.NotContains(t, got, "Date of Birth")
	assert.Contains(t, got, "Jane Doe")
	assert.Contains(t, got, "Skills: Go")
}

func TestNormalize_DuplicateContactLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "duplicate email collapsed",
			input: "jane@example.com\njane@example.com\nEngineer",
			want:  "jane@example.com\nEngineer",
		},
		{
			name:  "duplicate phone collapsed",
			input: "555-123-4567\n555-123-4567",
			want:  "555-123-4567",
		},
		{
			name:  "non-adjacent duplicates kept",
			input: "jane@example.com\nEngineer\njane@example.com",
			want:  "jane@example.com\nEngineer\njane@example.com",
		},
		{
			name:  "duplicate plain lines kept",
			input: "Engineer\nEngineer",
			want:  "Engineer\nEngineer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Jane   Doe\n\n\nEngineer!!!",
		"--- Page 1 ---\njane@example.com\njane@example.com\n“Quoted”…\n42\nshort | header",
		"References available upon request\n\nSummary paragraph with   spaces.",
		"plain already-normal text",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		assert.Equal(t, once, twice, "Normalize must be idempotent for %q", input)
	}
}
