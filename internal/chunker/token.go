package chunker

// EstimateTokens approximates a token count using a fixed chars-per-token
// divisor. This is intentionally not a real tokenizer; the only contract
// is monotonicity, a longer text never estimates fewer tokens.
func EstimateTokens(text string, charsPerToken int) int {
	if text == "" {
		return 0
	}
	if charsPerToken <= 0 {
		charsPerToken = 4
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}
