package render

import (
	"io"
	"strings"

	"github.com/dgallion1/ragchunk/internal/document"
)

// rootParent marks parent-level chunks in the flat record, which have
// no parent of their own.
const rootParent = "ROOT"

// WriteRAGLines writes one delimited record per chunk, ready for
// embedding pipelines and vector stores:
//
//	ID|LEVEL|SECTION|PARENT|TOKENS|HASH|CONTENT
//
// The delimiter and newlines inside content are escaped so each record
// stays on a single line.
func WriteRAGLines(w io.Writer, chunks []document.Chunk) error {
	bw := &errWriter{w: w}
	bw.printf("# RAG-READY CHUNKS\n")
	bw.printf("# Format: ID|LEVEL|SECTION|PARENT|TOKENS|HASH|CONTENT\n\n")

	for _, c := range chunks {
		parent := c.ParentChunkID
		if parent == "" {
			parent = rootParent
		}
		bw.printf("%s|%s|%s|%s|%d|%s|%s\n",
			c.ChunkID, c.Level, c.SectionID, parent, c.EstimatedTokens, c.ContentHash,
			escapeContent(c.Text))
	}
	return bw.err
}

func escapeContent(text string) string {
	text = strings.ReplaceAll(text, "|", "&#124;")
	text = strings.ReplaceAll(text, "\n", `\n`)
	return text
}
