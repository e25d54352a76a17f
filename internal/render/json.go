package render

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/ragchunk/internal/chunker"
	"github.com/dgallion1/ragchunk/internal/document"
)

// structuredOutput is the machine-readable record of a full run.
type structuredOutput struct {
	Metadata structuredMetadata          `json:"metadata"`
	Sections []document.SectionHierarchy `json:"sections"`
}

type structuredMetadata struct {
	ModelContextWindow int     `json:"model_context_window"`
	TargetContextUsage float64 `json:"target_context_usage"`
	AvailableContext   int     `json:"available_context"`
	ParentChunkSize    int     `json:"parent_chunk_size"`
	ChildChunkSize     int     `json:"child_chunk_size"`
	OverlapSize        int     `json:"overlap_size"`
	TotalSections      int     `json:"total_sections"`
	TotalChunks        int     `json:"total_chunks"`
}

// WriteJSON renders the hierarchy as an indented JSON document for
// programmatic use.
func WriteJSON(w io.Writer, res chunker.Result, cfg chunker.Config) error {
	out := structuredOutput{
		Metadata: structuredMetadata{
			ModelContextWindow: cfg.ModelContextWindow,
			TargetContextUsage: cfg.TargetContextUsage,
			AvailableContext:   cfg.AvailableContext(),
			ParentChunkSize:    cfg.ParentChunkSize,
			ChildChunkSize:     cfg.ChildChunkSize,
			OverlapSize:        cfg.OverlapSize,
			TotalSections:      len(res.View.Sections),
			TotalChunks:        len(res.Chunks),
		},
		Sections: res.View.Sections,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteStats renders run statistics and sizing recommendations.
func WriteStats(w io.Writer, stats document.RunStatistics) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
