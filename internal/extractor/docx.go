package extractor

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// extractDOCX parses a .docx file by reading word/document.xml from the ZIP
// archive. Body paragraphs are emitted first in document order, then table
// cells in row-major order, each non-empty unit on its own line.
func extractDOCX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	paragraphs, cells, err := walkDocument(xml.NewDecoder(rc))
	if err != nil {
		return "", err
	}

	return strings.Join(append(paragraphs, cells...), "\n"), nil
}

// walkDocument streams through document.xml collecting paragraph text.
// Paragraphs inside tables are gathered per cell and returned separately so
// body text precedes table content in the output. Any decode error other
// than a clean EOF is surfaced; partial text from a truncated or malformed
// document must never pass as success.
func walkDocument(decoder *xml.Decoder) (paragraphs, cells []string, err error) {
	var currentText strings.Builder
	var cellText strings.Builder
	inParagraph := false
	tableDepth := 0

	for {
		tok, tokErr := decoder.Token()
		if tokErr != nil {
			if errors.Is(tokErr, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("parse document.xml: %w", tokErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				cellText.Reset()
			case "p":
				inParagraph = true
				currentText.Reset()
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if !inParagraph {
					continue
				}
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				if tableDepth > 0 {
					if cellText.Len() > 0 {
						cellText.WriteByte(' ')
					}
					cellText.WriteString(text)
				} else {
					paragraphs = append(paragraphs, text)
				}
			case "tc":
				if text := strings.TrimSpace(cellText.String()); text != "" {
					cells = append(cells, text)
				}
			case "tbl":
				if tableDepth > 0 {
					tableDepth--
				}
			}
		}
	}

	return paragraphs, cells, nil
}
