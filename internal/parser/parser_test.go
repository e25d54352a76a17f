package parser

import (
	"fmt"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
	}{
		{"notes.txt", "*parser.TextParser"},
		{"readme.md", "*parser.MarkdownParser"},
		{"notes.markdown", "*parser.MarkdownParser"},
		{"data.csv", "*parser.CSVParser"},
		{"page.html", "*parser.HTMLParser"},
		{"page.HTM", "*parser.HTMLParser"},
		{"spec.pdf", "*parser.PDFParser"},
		{"report.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tt.wantType {
			t.Errorf("%s: got %s, want %s", tt.filename, got, tt.wantType)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	if _, err := ForFile("archive.zip"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("doc.PDF") {
		t.Error("extension check should be case-insensitive")
	}
	if IsSupportedExtension("binary.exe") {
		t.Error("unexpected support for .exe")
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"notes.txt", "notes"},
		{"/tmp/dir/report.pdf", "report"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := stem(tt.in); got != tt.want {
			t.Errorf("stem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
