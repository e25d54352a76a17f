package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_BatchHeadings(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("name,role\n")
	for i := 0; i < 25; i++ {
		sb.WriteString("person,engineer\n")
	}

	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(sb.String()), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 25 data rows with batch size 20: rows 2-21 and 22-26.
	if !strings.Contains(doc.Text, "# Rows 2-21") {
		t.Errorf("expected first batch heading, got:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "# Rows 22-26") {
		t.Errorf("expected second batch heading, got:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "Headers: name, role") {
		t.Errorf("expected header line, got:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "name: person, role: engineer") {
		t.Errorf("expected key-value rows, got:\n%s", doc.Text)
	}
}

func TestCSVParser_EmptyFile(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader("a,b,c\n"), "header.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "" {
		t.Errorf("expected no batches for header-only file, got %q", doc.Text)
	}
}
