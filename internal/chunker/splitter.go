package chunker

// Span is one sub-span produced by the sentence-aware splitter.
// OverlapCharCount is how many leading characters were re-included from
// the previous span (0 for the first span).
type Span struct {
	Text             string
	OverlapCharCount int
}

// How far back from the target cut point the splitter searches for a
// sentence boundary.
const maxLookback = 200

// SplitWithOverlap splits shielded text into spans of roughly targetSize
// characters. Cuts land on sentence boundaries when one is within the
// look-back window, otherwise at targetSize (a deliberate fallback, not
// an error). After the first span, each span's start moves back by
// overlapSize characters from the previous cut to re-include trailing
// context. Placeholder tokens emitted by Protect are atomic and are
// never split, regardless of their length.
func SplitWithOverlap(text string, targetSize, overlapSize int, preferSentenceBoundary bool) []Span {
	if text == "" {
		return nil
	}
	if targetSize <= 0 {
		targetSize = 1
	}
	if len(text) <= targetSize {
		return []Span{{Text: text}}
	}

	lookback := targetSize / 4
	if lookback > maxLookback {
		lookback = maxLookback
	}
	// Keep the minimum advance per span above the overlap so the scan
	// always makes progress.
	if overlapSize >= targetSize-lookback {
		lookback = 0
	}

	var spans []Span
	start := 0
	prevCut := 0

	for start < len(text) {
		end := start + targetSize
		if end >= len(text) {
			end = len(text)
		} else {
			if preferSentenceBoundary {
				if cut, ok := sentenceCut(text, end, lookback, prevCut); ok {
					end = cut
				}
			}
			if _, pe, ok := placeholderSpan(text, end); ok {
				end = pe
			}
		}

		spans = append(spans, Span{
			Text:             text[start:end],
			OverlapCharCount: prevCut - start,
		})
		if end >= len(text) {
			break
		}

		prevCut = end
		next := end - overlapSize
		if next < 0 {
			next = prevCut
		}
		if ps, _, ok := placeholderSpan(text, next); ok {
			next = ps
		}
		if next <= start {
			next = prevCut
		}
		start = next
	}

	return spans
}

// sentenceCut searches backward from pos for sentence-ending punctuation
// followed by whitespace, within the look-back window and never at or
// before the floor position. Returns the index just past the whitespace.
func sentenceCut(text string, pos, lookback, floor int) (int, bool) {
	lo := pos - lookback
	if lo <= floor {
		lo = floor + 1
	}
	for i := pos - 2; i >= lo; i-- {
		if !isSentenceEnd(text[i]) {
			continue
		}
		if isSpace(text[i+1]) {
			return i + 2, true
		}
	}
	return 0, false
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t' || b == '\r'
}
