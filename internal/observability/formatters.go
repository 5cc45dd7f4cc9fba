// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResumeRecord outputs a human-readable summary of a parsed resume.
func (p *Printer) PrintResumeRecord(record *types.ResumeRecord) {
	if record == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:     %s\n", record.ContactInformation.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", record.ContactInformation.Email))
	if record.ContactInformation.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", record.ContactInformation.Phone))
	}
	if record.ContactInformation.Location != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", record.ContactInformation.Location))
	}

	if record.Summary != "" {
		summary := record.Summary
		if len(summary) > 50 {
			summary = summary[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("\nSummary: %s\n", summary))
	}

	if len(record.WorkExperience) > 0 {
		sb.WriteString("\nWork Experience:\n")
		count := min(len(record.WorkExperience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := record.WorkExperience[i]
			sb.WriteString(fmt.Sprintf("  • %s", exp.Role))
			if exp.Company != "" {
				sb.WriteString(fmt.Sprintf(" @ %s", exp.Company))
			}
			if exp.Duration != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", exp.Duration))
			}
			sb.WriteString("\n")
		}
		if len(record.WorkExperience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.WorkExperience)-maxItemsToShow))
		}
	}

	if len(record.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		count := min(len(record.Education), 3)
		for i := 0; i < count; i++ {
			edu := record.Education[i]
			sb.WriteString(fmt.Sprintf("  • %s, %s", edu.Degree, edu.Institution))
			if edu.Year != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", edu.Year))
			}
			sb.WriteString("\n")
		}
		if len(record.Education) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Education)-3))
		}
	}

	if len(record.Skills.TechnicalSkills) > 0 {
		skills := strings.Join(record.Skills.TechnicalSkills, ", ")
		if len(skills) > 45 {
			skills = skills[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("\nTechnical: %s\n", skills))
	}
	if len(record.Skills.SoftSkills) > 0 {
		skills := strings.Join(record.Skills.SoftSkills, ", ")
		if len(skills) > 45 {
			skills = skills[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Soft:      %s\n", skills))
	}

	if len(record.Certifications) > 0 {
		sb.WriteString("\nCertifications:\n")
		count := min(len(record.Certifications), 3)
		for i := 0; i < count; i++ {
			cert := record.Certifications[i]
			sb.WriteString(fmt.Sprintf("  • %s", cert.Name))
			if cert.IssuingOrganization != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", cert.IssuingOrganization))
			}
			sb.WriteString("\n")
		}
		if len(record.Certifications) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(record.Certifications)-3))
		}
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the outcome of a pipeline run.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResult(result pipeline.Result) {
	if result.Success {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ PARSE SUCCEEDED")
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "Run: "+result.CorrelationID)
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		p.PrintResumeRecord(result.Record)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:   %s\n", result.CorrelationID))
	sb.WriteString(fmt.Sprintf("Error: %s", result.ErrorMessage))
	p.printBox("⚠ PARSE FAILED", sb.String())
}
