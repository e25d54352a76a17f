// Package expand rewrites first-mention acronyms in chunk text with
// their long form. It runs strictly after chunking, so it never
// influences chunk boundaries or identities.
package expand

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/dgallion1/ragchunk/internal/chunker"
	"github.com/dgallion1/ragchunk/internal/document"
)

// Expander substitutes domain vocabulary on first mention.
type Expander struct {
	terms    map[string]string
	patterns map[string]*regexp.Regexp
	order    []string
}

// New builds an Expander from a term → expansion mapping. A nil or
// empty mapping yields a no-op expander.
func New(terms map[string]string) *Expander {
	e := &Expander{
		terms:    terms,
		patterns: make(map[string]*regexp.Regexp, len(terms)),
	}
	for term := range terms {
		e.order = append(e.order, term)
		e.patterns[term] = regexp.MustCompile(`\b` + regexp.QuoteMeta(term) + `\b`)
	}
	// Deterministic substitution order.
	sort.Strings(e.order)
	return e
}

// LoadTerms reads a term table from a JSON file of the form
// {"TERM": "expansion", ...}.
func LoadTerms(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terms file: %w", err)
	}
	var terms map[string]string
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parse terms file %s: %w", path, err)
	}
	return terms, nil
}

// Text rewrites the first standalone occurrence of each known term as
// "TERM (expansion)". Occurrences inside fenced code are left alone.
func (e *Expander) Text(text string) string {
	if len(e.terms) == 0 {
		return text
	}
	shielded, reg := chunker.Protect(text, true)
	for _, term := range e.order {
		pat := e.patterns[term]
		loc := pat.FindStringIndex(shielded)
		if loc == nil {
			continue
		}
		replacement := fmt.Sprintf("%s (%s)", term, e.terms[term])
		shielded = shielded[:loc[0]] + replacement + shielded[loc[1]:]
	}
	return reg.Restore(shielded)
}

// Chunks applies Text to every chunk and refreshes the length and token
// fields. Chunk ids and hashes are assigned before expansion and stay
// stable whether or not expansion is applied.
func (e *Expander) Chunks(chunks []document.Chunk, cfg chunker.Config) {
	if len(e.terms) == 0 {
		return
	}
	for i := range chunks {
		expanded := e.Text(chunks[i].Text)
		if expanded == chunks[i].Text {
			continue
		}
		chunks[i].Text = expanded
		chunks[i].CharLength = len(expanded)
		chunks[i].EstimatedTokens = chunker.EstimateTokens(expanded, cfg.CharsPerToken)
	}
}
