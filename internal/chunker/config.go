package chunker

import "fmt"

// Config controls hierarchical chunking behavior. Sizes are in
// characters; the context window is in tokens.
type Config struct {
	ModelContextWindow     int     // Token budget of the downstream model.
	TargetContextUsage     float64 // Fraction of the window reserved for content.
	ParentChunkSize        int     // Target parent chunk size in characters.
	ChildChunkSize         int     // Target child chunk size in characters.
	OverlapSize            int     // Characters repeated between consecutive chunks.
	MinChunkSize           int     // Sections shorter than this are skipped.
	PreferSentenceBoundary bool    // Cut at sentence ends when one is in reach.
	PreserveCodeBlocks     bool    // Shield fenced code from splitting.
	CharsPerToken          int     // Token estimation divisor (~4 chars/token).
}

// DefaultConfig returns sizing tuned for a 4K-token context window.
func DefaultConfig() Config {
	return Config{
		ModelContextWindow:     4096,
		TargetContextUsage:     0.70,
		ParentChunkSize:        1200,
		ChildChunkSize:         400,
		OverlapSize:            50,
		MinChunkSize:           100,
		PreferSentenceBoundary: true,
		PreserveCodeBlocks:     true,
		CharsPerToken:          4,
	}
}

// AvailableContext is the token budget left for retrieved content after
// reserving room for prompt and response.
func (c Config) AvailableContext() int {
	return int(float64(c.ModelContextWindow) * c.TargetContextUsage)
}

// Validate checks the numeric relationships between sizing fields.
// Violations are configuration errors and fail before any document is
// processed.
func (c Config) Validate() error {
	if c.ModelContextWindow <= 0 {
		return fmt.Errorf("model_context_window must be positive, got %d", c.ModelContextWindow)
	}
	if c.TargetContextUsage <= 0 || c.TargetContextUsage > 1 {
		return fmt.Errorf("target_context_usage must be in (0,1], got %g", c.TargetContextUsage)
	}
	if c.ParentChunkSize <= 0 {
		return fmt.Errorf("parent_chunk_size must be positive, got %d", c.ParentChunkSize)
	}
	if c.ChildChunkSize <= 0 {
		return fmt.Errorf("child_chunk_size must be positive, got %d", c.ChildChunkSize)
	}
	if c.ChildChunkSize >= c.ParentChunkSize {
		return fmt.Errorf("child_chunk_size (%d) must be less than parent_chunk_size (%d)", c.ChildChunkSize, c.ParentChunkSize)
	}
	if c.OverlapSize < 0 {
		return fmt.Errorf("overlap_size must not be negative, got %d", c.OverlapSize)
	}
	if c.OverlapSize >= c.ChildChunkSize {
		return fmt.Errorf("overlap_size (%d) must be less than child_chunk_size (%d)", c.OverlapSize, c.ChildChunkSize)
	}
	if c.MinChunkSize < 0 {
		return fmt.Errorf("min_chunk_size must not be negative, got %d", c.MinChunkSize)
	}
	if c.CharsPerToken <= 0 {
		return fmt.Errorf("chars_per_token must be positive, got %d", c.CharsPerToken)
	}
	return nil
}
