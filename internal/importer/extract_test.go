package importer

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextDocx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Alex Coder</w:t></w:r></w:p>
    <w:p><w:r><w:t>Backend Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`
	data := buildDocx(t, doc)

	text, err := ExtractText(data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "resume.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Alex Coder") || !strings.Contains(text, "Backend Engineer") {
		t.Fatalf("text = %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Error("paragraph boundary lost")
	}
}

func TestExtractTextUsesExtensionFallback(t *testing.T) {
	data := buildDocx(t, `<w:document><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`)

	// Browsers sometimes send a generic type; the extension decides.
	text, err := ExtractText(data, "application/octet-stream", "resume.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "hello" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	_, err := ExtractText([]byte("plain text"), "text/plain", "resume.txt")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractTextDocxWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("other.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<x/>")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := ExtractText(buf.Bytes(), "", "resume.docx"); err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
}

func TestStripDocxXMLBreaks(t *testing.T) {
	raw := []byte(`<p>line one</p><p>line two<br/></p>`)
	got := stripDocxXML(raw)
	if got != "line one\nline two" {
		t.Fatalf("got %q", got)
	}
}
