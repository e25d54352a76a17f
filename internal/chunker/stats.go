package chunker

import (
	"fmt"
	"sort"

	"github.com/dgallion1/ragchunk/internal/document"
)

// Aggregate computes RunStatistics over a finished chunking run. It is
// a pure function of the result and the configuration; nothing is
// mutated incrementally.
func Aggregate(res Result, cfg Config) document.RunStatistics {
	var parents, children []document.Chunk
	sectionIDs := make(map[string]struct{})
	totalTokens := 0
	for _, c := range res.Chunks {
		sectionIDs[c.SectionID] = struct{}{}
		totalTokens += c.EstimatedTokens
		if c.Level == document.LevelParent {
			parents = append(parents, c)
		} else {
			children = append(children, c)
		}
	}

	stats := document.RunStatistics{
		SectionsProcessed:    len(sectionIDs),
		SectionsSkipped:      len(res.Skipped),
		ParentChunks:         len(parents),
		ChildChunks:          len(children),
		TotalChunks:          len(res.Chunks),
		ParentSizes:          distribution(parents),
		ChildSizes:           distribution(children),
		TotalEstimatedTokens: totalTokens,
		Skipped:              res.Skipped,
		Warnings:             res.Warnings,
		Recommendations:      map[string]string{},
	}

	available := cfg.AvailableContext()
	if cfg.ChildChunkSize > 0 {
		stats.ChildUtilization = stats.ChildSizes.AvgChars / float64(cfg.ChildChunkSize)
	}
	if available > 0 && len(parents) > 0 {
		avgParentTokens := float64(totalParentTokens(parents)) / float64(len(parents))
		stats.ContextUtilization = avgParentTokens / float64(available)
	}
	if available > 0 && stats.ChildSizes.AvgTokens > 0 {
		stats.ChunksPerQuery = int(float64(available) / stats.ChildSizes.AvgTokens)
	}

	// A parent over the available context cannot be served whole to the
	// model; flagged by id, downstream decides.
	for _, p := range parents {
		if p.EstimatedTokens > available {
			stats.OversizeParentIDs = append(stats.OversizeParentIDs, p.ChunkID)
		}
	}

	fillRecommendations(&stats, cfg)
	return stats
}

func totalParentTokens(parents []document.Chunk) int {
	sum := 0
	for _, p := range parents {
		sum += p.EstimatedTokens
	}
	return sum
}

// fillRecommendations applies fixed threshold rules to suggest sizing
// changes. Suggestions only; nothing here is a hard error.
func fillRecommendations(stats *document.RunStatistics, cfg Config) {
	if stats.ChildChunks == 0 {
		stats.Recommendations["chunk_size"] = "no child chunks produced; check min_chunk_size against input length"
		return
	}

	switch {
	case stats.ChildUtilization < 0.5:
		stats.Recommendations["chunk_size"] = fmt.Sprintf(
			"average child chunk fills %.0f%% of child_chunk_size; consider decreasing child_chunk_size",
			stats.ChildUtilization*100)
	case stats.ChunksPerQuery > 0 && stats.ChunksPerQuery < 3:
		stats.Recommendations["chunk_size"] = "consider smaller child chunks for better context utilization"
	case stats.ChunksPerQuery > 8:
		stats.Recommendations["chunk_size"] = "consider larger child chunks for efficiency"
	default:
		stats.Recommendations["chunk_size"] = fmt.Sprintf("optimal: ~%d chunks per query", stats.ChunksPerQuery)
	}

	if stats.ChildChunks > 100 {
		stats.Recommendations["retrieval"] = "use semantic similarity + parent-child relationships for retrieval"
	} else {
		stats.Recommendations["retrieval"] = "simple top-k retrieval should work well"
	}

	if len(stats.OversizeParentIDs) > 0 {
		stats.Recommendations["parent_budget"] = fmt.Sprintf(
			"%d parent chunk(s) exceed the available context; decrease parent_chunk_size or increase model_context_window",
			len(stats.OversizeParentIDs))
	}
}

// distribution summarizes chunk char lengths, including interpolated
// percentiles.
func distribution(chunks []document.Chunk) document.SizeDistribution {
	if len(chunks) == 0 {
		return document.SizeDistribution{}
	}
	values := make([]int, 0, len(chunks))
	charSum, tokenSum := 0, 0
	for _, c := range chunks {
		values = append(values, c.CharLength)
		charSum += c.CharLength
		tokenSum += c.EstimatedTokens
	}
	sort.Ints(values)

	return document.SizeDistribution{
		Count:     len(values),
		MinChars:  values[0],
		MaxChars:  values[len(values)-1],
		AvgChars:  float64(charSum) / float64(len(values)),
		P50Chars:  percentile(values, 50),
		P95Chars:  percentile(values, 95),
		AvgTokens: float64(tokenSum) / float64(len(values)),
	}
}

func percentile(sortedValues []int, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
