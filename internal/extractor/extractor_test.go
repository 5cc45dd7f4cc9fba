package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		want      Format
		wantError bool
	}{
		{name: "pdf lowercase", filename: "resume.pdf", want: FormatPDF},
		{name: "pdf uppercase", filename: "RESUME.PDF", want: FormatPDF},
		{name: "docx", filename: "resume.docx", want: FormatDOCX},
		{name: "txt unsupported", filename: "resume.txt", wantError: true},
		{name: "doc unsupported", filename: "resume.doc", wantError: true},
		{name: "no extension", filename: "resume", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := Detect(tt.filename)
			if tt.wantError {
				require.Error(t, err)
				var unsupported *UnsupportedFormatError
				assert.True(t, errors.As(err, &unsupported))
				assert.Contains(t, err.Error(), "Unsupported file type")
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, format)
			}
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	e := New(nil)

	_, err := e.Extract(filepath.Join(t.TempDir(), "missing.pdf"), FormatPDF)
	require.Error(t, err)

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Contains(t, err.Error(), "File not found")
}

func TestExtract_CorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o644))

	e := New(nil)
	_, err := e.Extract(path, FormatPDF)
	require.Error(t, err)

	var extraction *ExtractionError
	assert.True(t, errors.As(err, &extraction))
	assert.Equal(t, FormatPDF, extraction.Format)
}

// writeDocx builds a minimal .docx archive with the given document.xml body.
func writeDocx(t *testing.T, body string) string {
	return writeDocxRaw(t, `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+body+`</w:body></w:document>`)
}

// writeDocxRaw builds a .docx archive whose document.xml holds doc verbatim.
func writeDocxRaw(t *testing.T, doc string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "resume.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return path
}

func TestExtract_DOCXParagraphsAndTables(t *testing.T) {
	body := `<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Software Engineer</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:tbl><w:tr>` +
		`<w:tc><w:p><w:r><w:t>Go</w:t></w:r></w:p></w:tc>` +
		`<w:tc><w:p><w:r><w:t>Python</w:t></w:r></w:p></w:tc>` +
		`</w:tr></w:tbl>`

	e := New(nil)
	text, err := e.Extract(writeDocx(t, body), FormatDOCX)
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe\nSoftware Engineer\nGo\nPython", text)
}

func TestExtract_DOCXTableCellsFollowBody(t *testing.T) {
	// A table appearing before a body paragraph must still sort after it.
	body := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>Body</w:t></w:r></w:p>`

	e := New(nil)
	text, err := e.Extract(writeDocx(t, body), FormatDOCX)
	require.NoError(t, err)

	assert.Equal(t, "Body\nCell", text)
}

func TestExtract_DOCXMissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	e := New(nil)
	_, err = e.Extract(path, FormatDOCX)
	require.Error(t, err)

	var extraction *ExtractionError
	assert.True(t, errors.As(err, &extraction))
}

func TestExtract_DOCXTruncatedDocument(t *testing.T) {
	// document.xml cut off mid-tag after one complete paragraph. The text
	// read so far must not be returned as a successful extraction.
	doc := `<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p><w:p><w:r><w:t>Engi`

	e := New(nil)
	text, err := e.Extract(writeDocxRaw(t, doc), FormatDOCX)
	require.Error(t, err)
	assert.Empty(t, text)

	var extraction *ExtractionError
	assert.True(t, errors.As(err, &extraction))
	assert.Equal(t, FormatDOCX, extraction.Format)
}

// writeMinimalPDF assembles a one-page PDF with a single text-showing
// content stream and a correct xref table.
func writeMinimalPDF(t *testing.T) string {
	t.Helper()

	content := "BT\n/F1 12 Tf\n72 720 Td\n(Jane Doe) Tj\nET"
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n",
		fmt.Sprintf("4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content),
		"5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects))
	for _, obj := range objects {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	path := filepath.Join(t.TempDir(), "minimal.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtract_PDFSinglePage(t *testing.T) {
	e := New(nil)
	text, err := e.Extract(writeMinimalPDF(t), FormatPDF)
	require.NoError(t, err)

	assert.Contains(t, text, "--- Page 1 ---")
	assert.Contains(t, text, "Jane Doe")
}

func TestExtract_PDFUnreadablePageContent(t *testing.T) {
	orig := extractPageContent
	extractPageContent = func(_ *model.Context, _ int) (io.Reader, error) {
		return nil, errors.New("damaged content stream")
	}
	defer func() { extractPageContent = orig }()

	e := New(nil)
	text, err := e.Extract(writeMinimalPDF(t), FormatPDF)
	require.Error(t, err)
	assert.Empty(t, text)

	var extraction *ExtractionError
	assert.True(t, errors.As(err, &extraction))
	assert.Contains(t, err.Error(), "page 1")
}

type shortReader struct{}

func (shortReader) Read([]byte) (int, error) {
	return 0, errors.New("stream ends early")
}

func TestPageContentText_ReadFailure(t *testing.T) {
	orig := extractPageContent
	extractPageContent = func(_ *model.Context, _ int) (io.Reader, error) {
		return shortReader{}, nil
	}
	defer func() { extractPageContent = orig }()

	_, err := pageContentText(nil, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read content")
}

func TestStreamText(t *testing.T) {
	data := []byte("BT\n(Hello) Tj\n0 -12 Td\n(World) Tj\nET")
	assert.Equal(t, "Hello World", streamText(data))
}

func TestStreamText_TJArray(t *testing.T) {
	data := []byte("[(Jane) -250 (Doe)] TJ")
	assert.Equal(t, "JaneDoe", streamText(data))
}

func TestDecodeLiteral(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain", raw: "plain text", want: "plain text"},
		{name: "escaped parens", raw: `a\(b\)c`, want: "a(b)c"},
		{name: "newline escape", raw: `line\nbreak`, want: "line\nbreak"},
		{name: "octal space", raw: `a\040b`, want: "a b"},
		{name: "backslash", raw: `a\\b`, want: `a\b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeLiteral([]byte(tt.raw)))
		})
	}
}
