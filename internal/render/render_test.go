package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgallion1/ragchunk/internal/chunker"
	"github.com/dgallion1/ragchunk/internal/document"
)

func sampleResult(t *testing.T) (chunker.Result, chunker.Config) {
	t.Helper()
	cfg := chunker.DefaultConfig()
	text := "# Overview\n" + strings.Repeat("A sentence for the sample document goes here. ", 40)
	res, err := chunker.ChunkDocument(document.Document{SourceID: "sample", Title: "Sample", Text: text}, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return res, cfg
}

func TestWriteReport_Structure(t *testing.T) {
	res, cfg := sampleResult(t)

	var buf bytes.Buffer
	if err := WriteReport(&buf, res, cfg); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "HIERARCHICAL RAG CHUNKS\n") {
		t.Errorf("missing banner:\n%s", out[:80])
	}
	if !strings.Contains(out, "# SECTION: OVERVIEW") {
		t.Errorf("missing section banner in report")
	}
	if !strings.Contains(out, "PARENT CHUNK: sample_s1_P1") {
		t.Errorf("missing parent summary in report")
	}
	if !strings.Contains(out, "CHILD: sample_s1_P1_C1") {
		t.Errorf("missing child entry in report")
	}
}

func TestWriteReport_Warnings(t *testing.T) {
	res, cfg := sampleResult(t)
	res.Warnings = append(res.Warnings, "unterminated code fence in sample_s1")

	var buf bytes.Buffer
	if err := WriteReport(&buf, res, cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "WARNINGS:\n  - unterminated code fence") {
		t.Error("warnings section missing from report")
	}
}

func TestWriteRAGLines_Format(t *testing.T) {
	chunks := []document.Chunk{
		{
			ChunkID:         "doc_s1_P1",
			Level:           document.LevelParent,
			SectionID:       "doc_s1",
			EstimatedTokens: 100,
			ContentHash:     "abcd1234",
			Text:            "parent text",
		},
		{
			ChunkID:         "doc_s1_P1_C1",
			Level:           document.LevelChild,
			SectionID:       "doc_s1",
			ParentChunkID:   "doc_s1_P1",
			EstimatedTokens: 30,
			ContentHash:     "ef567890",
			Text:            "child line one\nline two with | pipe",
		},
	}

	var buf bytes.Buffer
	if err := WriteRAGLines(&buf, chunks); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	// Two header lines, blank separator consumed by TrimSpace split.
	if lines[0] != "# RAG-READY CHUNKS" {
		t.Errorf("unexpected first header %q", lines[0])
	}

	var records []string
	for _, l := range lines {
		if l != "" && !strings.HasPrefix(l, "#") {
			records = append(records, l)
		}
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	parentFields := strings.Split(records[0], "|")
	if len(parentFields) != 7 {
		t.Fatalf("expected 7 fields, got %d: %q", len(parentFields), records[0])
	}
	if parentFields[3] != "ROOT" {
		t.Errorf("parent-level chunk should reference ROOT, got %q", parentFields[3])
	}

	childFields := strings.Split(records[1], "|")
	if len(childFields) != 7 {
		t.Fatalf("expected 7 fields after escaping, got %d: %q", len(childFields), records[1])
	}
	if childFields[3] != "doc_s1_P1" {
		t.Errorf("child should reference its parent, got %q", childFields[3])
	}
	if !strings.Contains(childFields[6], `\n`) {
		t.Errorf("newline not escaped in content: %q", childFields[6])
	}
	if !strings.Contains(childFields[6], "&#124;") {
		t.Errorf("pipe not escaped in content: %q", childFields[6])
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	res, cfg := sampleResult(t)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res, cfg); err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Metadata struct {
			ModelContextWindow int `json:"model_context_window"`
			AvailableContext   int `json:"available_context"`
			TotalSections      int `json:"total_sections"`
			TotalChunks        int `json:"total_chunks"`
		} `json:"metadata"`
		Sections []document.SectionHierarchy `json:"sections"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}

	if decoded.Metadata.ModelContextWindow != cfg.ModelContextWindow {
		t.Errorf("context window = %d, want %d", decoded.Metadata.ModelContextWindow, cfg.ModelContextWindow)
	}
	if decoded.Metadata.TotalChunks != len(res.Chunks) {
		t.Errorf("total chunks = %d, want %d", decoded.Metadata.TotalChunks, len(res.Chunks))
	}
	if len(decoded.Sections) != len(res.View.Sections) {
		t.Errorf("sections = %d, want %d", len(decoded.Sections), len(res.View.Sections))
	}
}

func TestWriteStats_ValidJSON(t *testing.T) {
	res, cfg := sampleResult(t)
	stats := chunker.Aggregate(res, cfg)

	var buf bytes.Buffer
	if err := WriteStats(&buf, stats); err != nil {
		t.Fatal(err)
	}

	var decoded document.RunStatistics
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid json: %v", err)
	}
	if decoded.TotalChunks != stats.TotalChunks {
		t.Errorf("total chunks = %d, want %d", decoded.TotalChunks, stats.TotalChunks)
	}
}

func TestPreview_Truncation(t *testing.T) {
	short := "short text"
	if preview(short) != short {
		t.Error("short text should pass through")
	}
	long := strings.Repeat("x", 300)
	got := preview(long)
	if len(got) != previewLength+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("unexpected preview %q", got[:20])
	}
}
