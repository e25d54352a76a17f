package chunker

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/ragchunk/internal/document"
)

// HeadingFunc decides whether a line starts a new section. next is the
// following line (empty at end of text). A true skipNext consumes next
// as part of the heading (underline-style markup).
//
// Heading detection is a heuristic pattern match, not a grammar; callers
// may substitute a stricter detector without touching the splitting
// logic.
type HeadingFunc func(line, next string) (title string, skipNext, ok bool)

var (
	mdHeadingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	numberedRe   = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+\S`)
	underlineRe  = regexp.MustCompile(`^(={3,}|-{3,})\s*$`)
	nonSlugRe    = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// DetectHeading is the default structural-marker heuristic: markdown
// hashes, underline-style markup, numbered headings and short title-case
// lines followed by a blank line.
func DetectHeading(line, next string) (string, bool, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false, false
	}

	if m := mdHeadingRe.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[2]), false, true
	}

	if len(trimmed) <= 80 && underlineRe.MatchString(strings.TrimSpace(next)) {
		return trimmed, true, true
	}

	if len(trimmed) <= 80 && numberedRe.MatchString(trimmed) &&
		!strings.HasSuffix(trimmed, ".") && strings.TrimSpace(next) == "" {
		return trimmed, false, true
	}

	if len(trimmed) <= 60 && strings.TrimSpace(next) == "" && isTitleCase(trimmed) {
		return trimmed, false, true
	}

	return "", false, false
}

// isTitleCase reports whether a line looks like a title: no terminal
// sentence punctuation and most words capitalized.
func isTitleCase(line string) bool {
	switch line[len(line)-1] {
	case '.', '!', '?', ':', ',', ';':
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 8 {
		return false
	}
	capitalized := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			capitalized++
		}
	}
	return capitalized*3 >= len(words)*2
}

// SplitIntoSections divides document text into named sections using the
// default heading heuristics. Sections shorter than MinChunkSize are
// silently filtered and reported as skipped.
func SplitIntoSections(text, sourceFileID string, cfg Config) ([]document.Section, []document.SkippedSection) {
	return SplitIntoSectionsFunc(text, sourceFileID, cfg, DetectHeading)
}

// SplitIntoSectionsFunc is SplitIntoSections with a caller-supplied
// heading detector.
func SplitIntoSectionsFunc(text, sourceFileID string, cfg Config, isHeading HeadingFunc) ([]document.Section, []document.SkippedSection) {
	// Shield fenced code so heading-like lines inside it never split.
	shielded, reg := Protect(text, cfg.PreserveCodeBlocks)
	lines := strings.Split(shielded, "\n")

	type rawSection struct {
		title string
		body  []string
	}
	var raw []rawSection
	current := rawSection{}

	flush := func() {
		if current.title != "" || len(current.body) > 0 {
			raw = append(raw, current)
		}
		current = rawSection{}
	}

	for i := 0; i < len(lines); i++ {
		next := ""
		if i+1 < len(lines) {
			next = lines[i+1]
		}
		if title, skipNext, ok := isHeading(lines[i], next); ok {
			flush()
			current.title = title
			if skipNext {
				i++
			}
			continue
		}
		current.body = append(current.body, lines[i])
	}
	flush()

	// When no markers are found, raw holds a single untitled entry and
	// the whole document becomes one "Section 1".
	var sections []document.Section
	var skipped []document.SkippedSection
	ordinal := 0
	for _, rs := range raw {
		body := strings.TrimSpace(reg.Restore(strings.Join(rs.body, "\n")))
		ordinal++

		title := rs.title
		if title == "" {
			title = fmt.Sprintf("Section %d", ordinal)
		}

		if body == "" {
			skipped = append(skipped, document.SkippedSection{
				SourceFile: sourceFileID,
				Title:      title,
				CharLength: 0,
				Reason:     "empty after trimming",
			})
			continue
		}
		if len(body) < cfg.MinChunkSize {
			skipped = append(skipped, document.SkippedSection{
				SourceFile: sourceFileID,
				Title:      title,
				CharLength: len(body),
				Reason:     "below min_chunk_size",
			})
			continue
		}

		sections = append(sections, document.Section{
			SectionID:  fmt.Sprintf("%s_s%d", Slugify(sourceFileID), ordinal),
			Title:      title,
			RawText:    body,
			SourceFile: sourceFileID,
			Ordinal:    ordinal,
		})
	}

	return sections, skipped
}

// Slugify reduces a name to a lowercase identifier-safe form.
func Slugify(name string) string {
	clean := nonSlugRe.ReplaceAllString(name, "")
	clean = whitespaceRe.ReplaceAllString(strings.TrimSpace(clean), "_")
	return strings.ToLower(clean)
}
