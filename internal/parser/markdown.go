package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/ragchunk/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings are
// re-emitted as "#" lines and fenced code blocks are re-emitted with
// their fences intact so the chunker can shield them.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return document.Document{}, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	var out strings.Builder
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			writeBlock(&out, strings.Repeat("#", node.Level)+" "+string(node.Text(src)))
		case *ast.FencedCodeBlock:
			lang := string(node.Language(src))
			var code bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				code.Write(line.Value(src))
			}
			writeBlock(&out, "```"+lang+"\n"+code.String()+"```")
		default:
			if t := extractText(n, src); t != "" {
				writeBlock(&out, t)
			}
		}
	}

	return document.Document{
		SourceID: stem(filename),
		Title:    stem(filename),
		Text:     strings.TrimSpace(out.String()),
	}, nil
}

func writeBlock(out *strings.Builder, block string) {
	if out.Len() > 0 {
		out.WriteString("\n\n")
	}
	out.WriteString(block)
}

// extractText gets the text content of a goldmark AST node. Leaf
// blocks carry their raw source lines; container blocks (lists, quotes)
// are walked recursively.
func extractText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		var buf bytes.Buffer
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := extractText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}
