package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndParagraphs(t *testing.T) {
	input := `<html><head><title>Test Page</title></head><body>
<h1>Main Title</h1>
<p>First paragraph.</p>
<h2>Subsection</h2>
<p>Second paragraph.</p>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Test Page" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}
	if !strings.Contains(doc.Text, "# Main Title") {
		t.Errorf("expected h1 as # line, got:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "## Subsection") {
		t.Errorf("expected h2 as ## line, got:\n%s", doc.Text)
	}
	if !strings.Contains(doc.Text, "First paragraph.") {
		t.Errorf("expected paragraph text, got:\n%s", doc.Text)
	}
}

func TestHTMLParser_SkipsChrome(t *testing.T) {
	input := `<html><body>
<nav><p>navigation links</p></nav>
<script>var x = secretCode();</script>
<style>.hidden { display: none }</style>
<p>Real content.</p>
<footer><p>copyright footer</p></footer>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, banned := range []string{"navigation links", "secretCode", "display: none", "copyright footer"} {
		if strings.Contains(doc.Text, banned) {
			t.Errorf("chrome content %q leaked into output:\n%s", banned, doc.Text)
		}
	}
	if !strings.Contains(doc.Text, "Real content.") {
		t.Errorf("expected real content, got:\n%s", doc.Text)
	}
}

func TestHTMLParser_PreBecomesFence(t *testing.T) {
	input := `<html><body><pre>func main() {
	run()
}</pre></body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "code.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(doc.Text, "```\nfunc main() {") {
		t.Errorf("expected pre content inside a fence, got:\n%s", doc.Text)
	}
	if strings.Count(doc.Text, "```") != 2 {
		t.Errorf("expected exactly one fenced block, got:\n%s", doc.Text)
	}
}

func TestHTMLParser_NoTitleFallsBackToFilename(t *testing.T) {
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader("<html><body><p>hi there</p></body></html>"), "fallback.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "fallback" {
		t.Errorf("expected filename-based title, got %q", doc.Title)
	}
}
