// Package render serializes a chunking run into its output formats:
// a human-readable hierarchical report, a structured JSON record, flat
// RAG-ready delimited lines, and a statistics record. The core never
// writes output itself; these collaborators consume its results.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/ragchunk/internal/chunker"
)

const (
	reportRule    = 80
	previewLength = 200
)

// WriteReport renders the hierarchy as a human-readable report: section
// banners, parent chunk summaries with a content preview, and full
// child chunk text.
func WriteReport(w io.Writer, res chunker.Result, cfg chunker.Config) error {
	bw := &errWriter{w: w}

	bw.printf("HIERARCHICAL RAG CHUNKS\n")
	bw.printf("%s\n", strings.Repeat("=", reportRule))
	bw.printf("Model Context Window: %d tokens\n", cfg.ModelContextWindow)
	bw.printf("Target Context Usage: %.0f%%\n", cfg.TargetContextUsage*100)
	bw.printf("Structure: Section -> Parent Chunks -> Child Chunks\n")
	bw.printf("%s\n\n", strings.Repeat("=", reportRule))

	for _, sec := range res.View.Sections {
		childCount := 0
		for _, pg := range sec.Parents {
			childCount += len(pg.Children)
		}

		bw.printf("%s\n", strings.Repeat("#", reportRule))
		bw.printf("# SECTION: %s\n", strings.ToUpper(sec.Title))
		bw.printf("# Original: %d chars\n", sec.RawLength)
		bw.printf("# Parents: %d, Children: %d\n", len(sec.Parents), childCount)
		bw.printf("%s\n\n", strings.Repeat("#", reportRule))

		for _, pg := range sec.Parents {
			bw.printf("PARENT CHUNK: %s\n", pg.Parent.ChunkID)
			bw.printf("   Tokens: ~%d, Children: %d\n", pg.Parent.EstimatedTokens, len(pg.Children))
			bw.printf("   Hash: %s\n", pg.Parent.ContentHash)
			bw.printf("   %s\n", strings.Repeat("-", 60))
			bw.printf("   %s\n", preview(pg.Parent.Text))
			bw.printf("   %s\n\n", strings.Repeat("-", 60))

			for _, child := range pg.Children {
				bw.printf("   CHILD: %s\n", child.ChunkID)
				bw.printf("      Tokens: ~%d, Hash: %s\n", child.EstimatedTokens, child.ContentHash)
				bw.printf("      %s\n", strings.Repeat("-", 40))
				bw.printf("      %s\n", child.Text)
				bw.printf("      %s\n\n", strings.Repeat("-", 40))
			}
		}

		bw.printf("%s\n\n", strings.Repeat("=", reportRule))
	}

	if len(res.Warnings) > 0 {
		bw.printf("WARNINGS:\n")
		for _, msg := range res.Warnings {
			bw.printf("  - %s\n", msg)
		}
	}

	return bw.err
}

func preview(text string) string {
	if len(text) <= previewLength {
		return text
	}
	return text[:previewLength] + "..."
}

// errWriter collects the first write error so format calls stay tidy.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
