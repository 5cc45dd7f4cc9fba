// Package cleaning turns raw extracted resume text into canonical plain text.
//
// Normalize is a pure function: deterministic, no side effects, and
// idempotent, so running it twice yields the same output as running it once.
package cleaning

import (
	"regexp"
	"strings"
)

// punctReplacer maps typographic quote and dash variants to ASCII.
var punctReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"–", "-", // en dash
	"—", "-", // em dash
)

var (
	repeatedPeriodRe   = regexp.MustCompile(`\.{2,}`)
	repeatedBangRe     = regexp.MustCompile(`!{2,}`)
	repeatedQuestionRe = regexp.MustCompile(`\?{2,}`)

	pageNumberLineRe = regexp.MustCompile(`^\d+$`)
	pageMarkerLineRe = regexp.MustCompile(`^--- Page \d+ ---$`)

	emailLineRe = regexp.MustCompile(`\S+@\S+`)
	phoneLineRe = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// boilerplateRes matches resume phrases that carry no extractable signal.
// Matches are deleted outright, not redacted.
var boilerplateRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)references available upon request`),
	regexp.MustCompile(`(?i)objective:`),
	regexp.MustCompile(`(?i)personal information`),
	regexp.MustCompile(`(?i)date of birth`),
	regexp.MustCompile(`(?i)marital status`),
	regexp.MustCompile(`(?i)nationality`),
	regexp.MustCompile(`(?i)passport number`),
	regexp.MustCompile(`(?i)driver.s license`),
}

// maxHeaderLineLen bounds the pipe-delimited header/footer heuristic; longer
// lines containing a vertical bar are assumed to be real content.
const maxHeaderLineLen = 100

// Normalize cleans raw extracted text into canonical plain text.
// Stages run in order: whitespace collapse, punctuation normalization,
// artifact line removal, boilerplate phrase removal, duplicate contact
// line collapse, and a final whitespace pass. Empty input returns "".
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = collapseWhitespace(text)
	text = normalizePunctuation(text)
	text = stripArtifactLines(text)
	text = removeBoilerplate(text)
	text = collapseDuplicateContactLines(text)

	// Phrase removal can leave emptied lines and doubled spaces behind.
	text = collapseWhitespace(text)

	return strings.TrimSpace(text)
}

// collapseWhitespace squashes runs of spaces and tabs within each line and
// collapses runs of blank lines down to a single blank line.
func collapseWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var out []string
	blank := false
	for _, line := range strings.Split(text, "\n") {
		squashed := strings.Join(strings.Fields(line), " ")
		if squashed == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, squashed)
		blank = false
	}

	// Drop a trailing blank line left by the loop.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return strings.Join(out, "\n")
}

func normalizePunctuation(text string) string {
	text = punctReplacer.Replace(text)
	text = repeatedPeriodRe.ReplaceAllString(text, ".")
	text = repeatedBangRe.ReplaceAllString(text, "!")
	text = repeatedQuestionRe.ReplaceAllString(text, "?")
	return text
}

// stripArtifactLines removes lines that are running header/footer artifacts:
// purely numeric page numbers, page separators from PDF extraction, and
// short pipe-delimited header lines.
func stripArtifactLines(text string) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if pageNumberLineRe.MatchString(trimmed) || pageMarkerLineRe.MatchString(trimmed) {
			continue
		}
		if strings.Contains(trimmed, "|") && len(trimmed) <= maxHeaderLineLen {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func removeBoilerplate(text string) string {
	for _, re := range boilerplateRes {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// collapseDuplicateContactLines drops adjacent duplicate lines that look like
// email addresses or phone numbers, a common header/footer repetition
// artifact. A single instance is kept.
func collapseDuplicateContactLines(text string) string {
	lines := strings.Split(text, "\n")
	out := lines[:0]
	prev := ""
	for i, line := range lines {
		if i > 0 && line == prev && line != "" &&
			(emailLineRe.MatchString(line) || phoneLineRe.MatchString(line)) {
			continue
		}
		out = append(out, line)
		prev = line
	}
	return strings.Join(out, "\n")
}
