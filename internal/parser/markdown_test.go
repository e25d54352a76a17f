package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsBecomeHashLines(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}
	for _, want := range []string{"# Title", "## Section A", "### Subsection A1"} {
		if !strings.Contains(doc.Text, want+"\n") && !strings.HasSuffix(doc.Text, want) {
			t.Errorf("expected heading line %q in output:\n%s", want, doc.Text)
		}
	}
	if !strings.Contains(doc.Text, "Intro text.") {
		t.Errorf("expected body text in output:\n%s", doc.Text)
	}
}

func TestMarkdownParser_CodeFencesPreserved(t *testing.T) {
	input := "# API Reference\n\nSome intro.\n\n```bash\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(doc.Text, "```bash\nGET /api/users\nPOST /api/users\n```") {
		t.Errorf("expected fenced code block preserved, got:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "More text after code.") {
		t.Errorf("expected post-code text, got:\n%s", doc.Text)
	}
}

func TestMarkdownParser_ParagraphNotDuplicated(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("One unique sentence."), "once.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(doc.Text, "One unique sentence."); got != 1 {
		t.Errorf("paragraph appears %d times, want 1:\n%s", got, doc.Text)
	}
}

func TestMarkdownParser_SoftWrappedParagraph(t *testing.T) {
	input := "A paragraph wrapped across\nthree source lines keeps\nall of its text.\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "wrapped.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"A paragraph wrapped across", "three source lines keeps", "all of its text."} {
		if !strings.Contains(doc.Text, want) {
			t.Errorf("expected %q in output:\n%s", want, doc.Text)
		}
	}
}

func TestMarkdownParser_Lists(t *testing.T) {
	input := "Overview:\n\n- first item\n- second item\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "list.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(doc.Text, "first item") || !strings.Contains(doc.Text, "second item") {
		t.Errorf("list items missing from output:\n%s", doc.Text)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "" {
		t.Errorf("expected empty text, got %q", doc.Text)
	}
}
