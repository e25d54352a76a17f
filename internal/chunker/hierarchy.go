package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/dgallion1/ragchunk/internal/document"
)

// Result is the output of one hierarchical chunking run. The builder
// exclusively owns the chunk collection and view for the run.
type Result struct {
	Chunks   []document.Chunk
	View     document.HierarchyView
	Skipped  []document.SkippedSection
	Warnings []string
}

// BuildHierarchy turns sections into parent and child chunks: each
// section is shielded, split into parent spans, and each parent's
// restored text is re-shielded and split into child spans. Chunk ids
// are derived from (section, level, ordinal) and are identical across
// runs over identical input. Sections that reduce to empty text are
// skipped and recorded, never aborting the run.
func BuildHierarchy(sections []document.Section, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("chunker config: %w", err)
	}

	var res Result
	for _, sec := range sections {
		text := strings.TrimSpace(sec.RawText)
		if text == "" {
			res.Skipped = append(res.Skipped, document.SkippedSection{
				SourceFile: sec.SourceFile,
				Title:      sec.Title,
				Reason:     "empty after trimming",
			})
			continue
		}

		shielded, reg := Protect(text, cfg.PreserveCodeBlocks)
		if reg.Unterminated() {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("unterminated code fence in %s (%q); fence extended to end of text", sec.SectionID, sec.Title))
		}

		sh := document.SectionHierarchy{
			SectionID: sec.SectionID,
			Title:     sec.Title,
			RawLength: len(text),
		}

		parentSpans := SplitWithOverlap(shielded, cfg.ParentChunkSize, cfg.OverlapSize, cfg.PreferSentenceBoundary)
		for pi, pspan := range parentSpans {
			parentText := reg.Restore(pspan.Text)
			parent := document.Chunk{
				ChunkID:            fmt.Sprintf("%s_P%d", sec.SectionID, pi+1),
				Level:              document.LevelParent,
				SectionID:          sec.SectionID,
				Text:               parentText,
				CharLength:         len(parentText),
				EstimatedTokens:    EstimateTokens(parentText, cfg.CharsPerToken),
				ContentHash:        ShortHash(parentText),
				HasOverlapFromPrev: pspan.OverlapCharCount > 0,
				OverlapCharCount:   pspan.OverlapCharCount,
			}
			res.Chunks = append(res.Chunks, parent)

			group := document.ParentGroup{Parent: parent}

			childShielded, childReg := Protect(parentText, cfg.PreserveCodeBlocks)
			childSpans := SplitWithOverlap(childShielded, cfg.ChildChunkSize, cfg.OverlapSize, cfg.PreferSentenceBoundary)
			for ci, cspan := range childSpans {
				childText := childReg.Restore(cspan.Text)
				child := document.Chunk{
					ChunkID:             fmt.Sprintf("%s_C%d", parent.ChunkID, ci+1),
					Level:               document.LevelChild,
					SectionID:           sec.SectionID,
					ParentChunkID:       parent.ChunkID,
					Text:                childText,
					CharLength:          len(childText),
					EstimatedTokens:     EstimateTokens(childText, cfg.CharsPerToken),
					ContentHash:         ShortHash(childText),
					OrdinalWithinParent: ci + 1,
					HasOverlapFromPrev:  cspan.OverlapCharCount > 0,
					OverlapCharCount:    cspan.OverlapCharCount,
				}
				res.Chunks = append(res.Chunks, child)
				group.Children = append(group.Children, child)
			}

			sh.Parents = append(sh.Parents, group)
		}

		res.View.Sections = append(res.View.Sections, sh)
	}

	return res, nil
}

// ChunkDocument runs the full core pipeline over one document's text:
// normalize, section, build the hierarchy. Sections skipped by the
// splitter are merged into the result.
func ChunkDocument(doc document.Document, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("chunker config: %w", err)
	}

	text := Normalize(doc.Text, cfg)

	if len(strings.TrimSpace(text)) < cfg.MinChunkSize {
		return Result{
			Skipped: []document.SkippedSection{{
				SourceFile: doc.SourceID,
				Title:      doc.Title,
				CharLength: len(strings.TrimSpace(text)),
				Reason:     "document below min_chunk_size",
			}},
		}, nil
	}

	sections, skipped := SplitIntoSections(text, doc.SourceID, cfg)
	res, err := BuildHierarchy(sections, cfg)
	if err != nil {
		return Result{}, err
	}
	res.Skipped = append(skipped, res.Skipped...)
	return res, nil
}

// ShortHash is a truncated sha256 hex digest used as a chunk content
// fingerprint.
func ShortHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:8]
}
