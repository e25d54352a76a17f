package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/ragchunk/internal/chunker"
	"github.com/dgallion1/ragchunk/internal/expand"
	"github.com/dgallion1/ragchunk/internal/parser"
	"github.com/dgallion1/ragchunk/internal/render"
)

func main() {
	var (
		inputDir      = flag.String("in", ".", "input directory or file")
		outputDir     = flag.String("out", "chunked", "output directory")
		contextWindow = flag.Int("context-window", 4096, "model context window in tokens")
		contextUsage  = flag.Float64("context-usage", 0.70, "target share of the context window")
		parentSize    = flag.Int("parent-size", 1200, "parent chunk size in characters")
		childSize     = flag.Int("child-size", 400, "child chunk size in characters")
		overlap       = flag.Int("overlap", 50, "overlap between sibling chunks in characters")
		minChunk      = flag.Int("min-chunk", 100, "minimum section size in characters")
		expandTerms   = flag.Bool("expand", false, "expand known acronyms on first mention")
		acronymFile   = flag.String("acronyms", "", "JSON file of acronym expansions (implies -expand)")
		pdfFallback   = flag.Bool("pdftotext", false, "fall back to the pdftotext binary for PDFs")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := chunker.DefaultConfig()
	cfg.ModelContextWindow = *contextWindow
	cfg.TargetContextUsage = *contextUsage
	cfg.ParentChunkSize = *parentSize
	cfg.ChildChunkSize = *childSize
	cfg.OverlapSize = *overlap
	cfg.MinChunkSize = *minChunk
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	var expander *expand.Expander
	if *expandTerms || *acronymFile != "" {
		terms := expand.DefaultTerms
		if *acronymFile != "" {
			loaded, err := expand.LoadTerms(*acronymFile)
			if err != nil {
				log.Error("failed to load acronym file", "path", *acronymFile, "error", err)
				os.Exit(1)
			}
			terms = loaded
		}
		expander = expand.New(terms)
	}

	files, err := collectInputs(*inputDir)
	if err != nil {
		log.Error("failed to collect inputs", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		log.Error("no supported input files found", "path", *inputDir)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	failed := 0
	for _, path := range files {
		if err := processFile(path, *outputDir, cfg, expander, *pdfFallback, log); err != nil {
			log.Error("processing failed", "file", path, "error", err)
			failed++
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

// collectInputs returns the supported files under path, or path itself
// when it names a single file.
func collectInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !parser.IsSupportedExtension(path) {
			return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	return files, nil
}

func processFile(path, outDir string, cfg chunker.Config, expander *expand.Expander, pdfFallback bool, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	p, err := parser.ForFile(path)
	if err != nil {
		return err
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = pdfFallback
	}

	doc, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	res, err := chunker.ChunkDocument(doc, cfg)
	if err != nil {
		return fmt.Errorf("chunk: %w", err)
	}
	for _, warning := range res.Warnings {
		log.Warn("chunking warning", "file", path, "warning", warning)
	}

	if expander != nil {
		expander.Chunks(res.Chunks, cfg)
	}

	stats := chunker.Aggregate(res, cfg)
	log.Info("chunked document",
		"file", path,
		"sections", stats.SectionsProcessed,
		"parents", stats.ParentChunks,
		"children", stats.ChildChunks,
		"tokens", stats.TotalEstimatedTokens,
	)

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outputs := []struct {
		suffix string
		write  func(f *os.File) error
	}{
		{"_report.txt", func(f *os.File) error { return render.WriteReport(f, res, cfg) }},
		{"_chunks.json", func(f *os.File) error { return render.WriteJSON(f, res, cfg) }},
		{"_rag.txt", func(f *os.File) error { return render.WriteRAGLines(f, res.Chunks) }},
		{"_stats.json", func(f *os.File) error { return render.WriteStats(f, stats) }},
	}
	for _, o := range outputs {
		outPath := filepath.Join(outDir, stem+o.suffix)
		out, err := os.Create(outPath)
		if err != nil {
			return err
		}
		writeErr := o.write(out)
		closeErr := out.Close()
		if writeErr != nil {
			return fmt.Errorf("write %s: %w", outPath, writeErr)
		}
		if closeErr != nil {
			return closeErr
		}
	}
	return nil
}
