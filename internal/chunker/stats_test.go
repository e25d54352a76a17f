package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/ragchunk/internal/document"
)

func TestPercentile_KnownValues(t *testing.T) {
	values := []int{100, 200, 300, 400, 500}

	if got := percentile(values, 50); got != 300 {
		t.Errorf("p50 = %v, want 300", got)
	}
	if got := percentile(values, 95); got != 480 {
		t.Errorf("p95 = %v, want 480", got)
	}
	if got := percentile(values, 0); got != 100 {
		t.Errorf("p0 = %v, want 100", got)
	}
	if got := percentile(values, 100); got != 500 {
		t.Errorf("p100 = %v, want 500", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("empty input = %v, want 0", got)
	}
}

func TestAggregate_Counts(t *testing.T) {
	text := strings.Repeat(fiftyCharSentence, 60)
	res, err := ChunkDocument(defaultDoc(text), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	stats := Aggregate(res, DefaultConfig())

	if stats.SectionsProcessed != 1 {
		t.Errorf("sections = %d, want 1", stats.SectionsProcessed)
	}
	if stats.ParentChunks != 3 {
		t.Errorf("parents = %d, want 3", stats.ParentChunks)
	}
	if stats.ParentChunks+stats.ChildChunks != stats.TotalChunks {
		t.Error("total chunks does not equal parents + children")
	}
	if stats.TotalEstimatedTokens <= 0 {
		t.Error("expected positive token total")
	}
	if stats.ChildSizes.MaxChars > DefaultConfig().ChildChunkSize {
		t.Errorf("child max %d exceeds target", stats.ChildSizes.MaxChars)
	}
	if stats.ChildUtilization <= 0 || stats.ChildUtilization > 1 {
		t.Errorf("child utilization %v out of range", stats.ChildUtilization)
	}
	if _, ok := stats.Recommendations["chunk_size"]; !ok {
		t.Error("expected a chunk_size recommendation")
	}
	if _, ok := stats.Recommendations["retrieval"]; !ok {
		t.Error("expected a retrieval recommendation")
	}
}

func TestAggregate_LowUtilizationRecommendsSmallerChildren(t *testing.T) {
	mkChild := func(id string, n int) document.Chunk {
		return document.Chunk{
			ChunkID:         id,
			Level:           document.LevelChild,
			SectionID:       "s1",
			CharLength:      n,
			EstimatedTokens: n / 4,
		}
	}
	res := Result{Chunks: []document.Chunk{
		{ChunkID: "p1", Level: document.LevelParent, SectionID: "s1", CharLength: 300, EstimatedTokens: 75},
		mkChild("c1", 120),
		mkChild("c2", 140),
	}}

	stats := Aggregate(res, DefaultConfig())

	if stats.ChildUtilization >= 0.5 {
		t.Fatalf("expected low utilization, got %v", stats.ChildUtilization)
	}
	rec := stats.Recommendations["chunk_size"]
	if !strings.Contains(rec, "decreasing child_chunk_size") {
		t.Errorf("unexpected recommendation %q", rec)
	}
}

func TestAggregate_OversizeParentFlagged(t *testing.T) {
	cfg := DefaultConfig() // available context = 2867 tokens
	res := Result{Chunks: []document.Chunk{
		{ChunkID: "big_P1", Level: document.LevelParent, SectionID: "s1", CharLength: 16000, EstimatedTokens: 4000},
		{ChunkID: "ok_P1", Level: document.LevelParent, SectionID: "s1", CharLength: 1200, EstimatedTokens: 300},
		{ChunkID: "big_P1_C1", Level: document.LevelChild, SectionID: "s1", ParentChunkID: "big_P1", CharLength: 400, EstimatedTokens: 100},
	}}

	stats := Aggregate(res, cfg)

	if len(stats.OversizeParentIDs) != 1 || stats.OversizeParentIDs[0] != "big_P1" {
		t.Fatalf("expected big_P1 flagged, got %v", stats.OversizeParentIDs)
	}
	if _, ok := stats.Recommendations["parent_budget"]; !ok {
		t.Error("expected a parent_budget recommendation")
	}
}

func TestAggregate_NoChildren(t *testing.T) {
	stats := Aggregate(Result{}, DefaultConfig())
	if stats.TotalChunks != 0 {
		t.Errorf("expected empty stats, got %d chunks", stats.TotalChunks)
	}
	if _, ok := stats.Recommendations["chunk_size"]; !ok {
		t.Error("expected a diagnostic recommendation for an empty run")
	}
}
