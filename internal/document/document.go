package document

// Document is a single source file reduced to plain UTF-8 text.
// Parsers render headings as markdown-style "#"-prefixed lines so the
// section splitter can recover structure from any input format.
type Document struct {
	SourceID string // Stable identifier, usually derived from the filename.
	Title    string // Document title (from metadata or filename).
	Text     string // Full normalized text content.
}

// Level distinguishes the two tiers of the chunk hierarchy.
type Level string

const (
	LevelParent Level = "parent"
	LevelChild  Level = "child"
)

// Section is a named, contiguous span of a source document.
type Section struct {
	SectionID  string // Deterministic id, namespaced by source file.
	Title      string // Heading text, or "Section N" when none is recoverable.
	RawText    string // Section content.
	SourceFile string // Owning source file identifier.
	Ordinal    int    // Position within the document, 1-based.
}

// SkippedSection records a section excluded from chunking. Skips are
// expected behavior, not errors.
type SkippedSection struct {
	SourceFile string `json:"source_file"`
	Title      string `json:"title"`
	CharLength int    `json:"char_length"`
	Reason     string `json:"reason"`
}

// Chunk is the atomic output unit of the chunker.
type Chunk struct {
	ChunkID             string `json:"chunk_id"`
	Level               Level  `json:"level"`
	SectionID           string `json:"section_id"`
	ParentChunkID       string `json:"parent_chunk_id,omitempty"` // Empty for parent chunks.
	Text                string `json:"text"`
	CharLength          int    `json:"char_length"`
	EstimatedTokens     int    `json:"estimated_tokens"`
	ContentHash         string `json:"content_hash"`
	OrdinalWithinParent int    `json:"ordinal_within_parent,omitempty"` // 1-based, child chunks only.
	HasOverlapFromPrev  bool   `json:"has_overlap_from_previous"`
	OverlapCharCount    int    `json:"overlap_char_count"`
}

// ParentGroup pairs one parent chunk with its ordered children.
type ParentGroup struct {
	Parent   Chunk   `json:"parent"`
	Children []Chunk `json:"children"`
}

// SectionHierarchy is the ordered chunk tree of one section.
type SectionHierarchy struct {
	SectionID string        `json:"section_id"`
	Title     string        `json:"title"`
	RawLength int           `json:"raw_length"`
	Parents   []ParentGroup `json:"parents"`
}

// HierarchyView groups chunks by section, then by parent. It is a
// read-only view over the chunk collection, built once per run.
type HierarchyView struct {
	Sections []SectionHierarchy `json:"sections"`
}

// Section returns the hierarchy for one section id, or nil.
func (v *HierarchyView) Section(sectionID string) *SectionHierarchy {
	for i := range v.Sections {
		if v.Sections[i].SectionID == sectionID {
			return &v.Sections[i]
		}
	}
	return nil
}

// SizeDistribution summarizes char lengths for one chunk level.
type SizeDistribution struct {
	Count     int     `json:"count"`
	MinChars  int     `json:"min_chars"`
	MaxChars  int     `json:"max_chars"`
	AvgChars  float64 `json:"avg_chars"`
	P50Chars  float64 `json:"p50_chars"`
	P95Chars  float64 `json:"p95_chars"`
	AvgTokens float64 `json:"avg_tokens"`
}

// RunStatistics is the aggregate view of one chunking run. It is
// recomputed from the final chunk collection, never mutated in place.
type RunStatistics struct {
	SectionsProcessed int `json:"sections_processed"`
	SectionsSkipped   int `json:"sections_skipped"`
	ParentChunks      int `json:"parent_chunks"`
	ChildChunks       int `json:"child_chunks"`
	TotalChunks       int `json:"total_chunks"`

	ParentSizes SizeDistribution `json:"parent_sizes"`
	ChildSizes  SizeDistribution `json:"child_sizes"`

	TotalEstimatedTokens int     `json:"total_estimated_tokens"`
	ChildUtilization     float64 `json:"child_utilization"`     // avg child chars / configured child size
	ContextUtilization   float64 `json:"context_utilization"`   // avg parent tokens / available context
	ChunksPerQuery       int     `json:"chunks_per_query"`      // how many child chunks fit the available context
	OversizeParentIDs    []string `json:"oversize_parent_ids,omitempty"`

	Skipped         []SkippedSection  `json:"skipped,omitempty"`
	Warnings        []string          `json:"warnings,omitempty"`
	Recommendations map[string]string `json:"recommendations"`
}
