package chunker

import (
	"fmt"
	"strings"
)

const (
	fenceMarker       = "```"
	placeholderPrefix = "<<CODE_BLOCK_"
	placeholderSuffix = ">>"
)

// ShieldRegistry records the code blocks removed from a text span so
// they can be restored after chunk boundaries are fixed.
type ShieldRegistry struct {
	blocks       []string
	enabled      bool
	unterminated bool
}

// Len returns the number of shielded blocks.
func (r *ShieldRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.blocks)
}

// Unterminated reports whether the text ended inside an open fence.
// The fence is treated as extending to end of text; this is a warning
// condition, never an error.
func (r *ShieldRegistry) Unterminated() bool {
	return r != nil && r.unterminated
}

// Protect replaces each fenced code region with a placeholder token and
// records the original content. When disabled it is an identity pass.
func Protect(text string, preserveCodeBlocks bool) (string, *ShieldRegistry) {
	reg := &ShieldRegistry{enabled: preserveCodeBlocks}
	if !preserveCodeBlocks || !strings.Contains(text, fenceMarker) {
		return text, reg
	}

	var out strings.Builder
	out.Grow(len(text))
	rest := text
	for {
		open := strings.Index(rest, fenceMarker)
		if open < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])

		// Close fence is the next marker after the opening line.
		body := rest[open+len(fenceMarker):]
		closing := strings.Index(body, fenceMarker)
		var block string
		if closing < 0 {
			block = rest[open:]
			reg.unterminated = true
			rest = ""
		} else {
			end := open + len(fenceMarker) + closing + len(fenceMarker)
			block = rest[open:end]
			rest = rest[end:]
		}

		out.WriteString(placeholder(len(reg.blocks)))
		reg.blocks = append(reg.blocks, block)
		if rest == "" {
			break
		}
	}
	return out.String(), reg
}

// Restore substitutes every placeholder back with its original content.
// It is the exact inverse of Protect.
func (r *ShieldRegistry) Restore(shielded string) string {
	if r == nil || len(r.blocks) == 0 {
		return shielded
	}
	out := shielded
	for i, block := range r.blocks {
		out = strings.Replace(out, placeholder(i), block, 1)
	}
	return out
}

func placeholder(i int) string {
	return fmt.Sprintf("%s%d%s", placeholderPrefix, i, placeholderSuffix)
}

// placeholderSpan reports the bounds of the placeholder token covering
// position pos in shielded text, if any. Used by the splitter to keep
// placeholders atomic.
func placeholderSpan(text string, pos int) (start, end int, ok bool) {
	if pos <= 0 || pos >= len(text) {
		return 0, 0, false
	}
	// Search backward for an opening marker close enough to cover pos.
	// The window extends past pos so a marker straddling it is found.
	from := pos - maxPlaceholderLen
	if from < 0 {
		from = 0
	}
	to := pos + len(placeholderPrefix) - 1
	if to > len(text) {
		to = len(text)
	}
	idx := strings.LastIndex(text[from:to], placeholderPrefix)
	if idx < 0 {
		return 0, 0, false
	}
	start = from + idx
	rel := strings.Index(text[start:], placeholderSuffix)
	if rel < 0 {
		return 0, 0, false
	}
	end = start + rel + len(placeholderSuffix)
	if end-start > maxPlaceholderLen {
		return 0, 0, false
	}
	if pos > start && pos < end {
		return start, end, true
	}
	return 0, 0, false
}

// Generous bound on "<<CODE_BLOCK_n>>" length; block counts stay tiny.
const maxPlaceholderLen = len(placeholderPrefix) + 12 + len(placeholderSuffix)
