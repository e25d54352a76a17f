package chunker

import (
	"regexp"
	"strings"
)

var (
	blankRunRe   = regexp.MustCompile(`\n{3,}`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	trailSpaceRe = regexp.MustCompile(` +\n`)
)

// Normalize cleans up raw document text before sectioning: line endings,
// excessive blank lines and runs of horizontal whitespace. Fenced code
// is shielded first so its interior formatting is untouched.
func Normalize(text string, cfg Config) string {
	shielded, reg := Protect(text, cfg.PreserveCodeBlocks)

	shielded = strings.ReplaceAll(shielded, "\r\n", "\n")
	shielded = blankRunRe.ReplaceAllString(shielded, "\n\n")
	shielded = spaceRunRe.ReplaceAllString(shielded, " ")
	shielded = trailSpaceRe.ReplaceAllString(shielded, "\n")

	return strings.TrimSpace(reg.Restore(shielded))
}
