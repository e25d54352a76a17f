package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/ragchunk/internal/chunker"
	"github.com/dgallion1/ragchunk/internal/chunkstore"
	"github.com/dgallion1/ragchunk/internal/document"
	"github.com/dgallion1/ragchunk/internal/expand"
	"github.com/dgallion1/ragchunk/internal/parser"
)

// Worker processes a single document job: parse, chunk, expand, store.
type Worker struct {
	store    *chunkstore.Client
	expander *expand.Expander
	log      *slog.Logger
	chunkCfg chunker.Config

	maxConcurrentStore int
	pdfFallback        bool
}

func NewWorker(store *chunkstore.Client, expander *expand.Expander, log *slog.Logger, chunkCfg chunker.Config, maxStore int, pdfFallback bool) *Worker {
	return &Worker{
		store:              store,
		expander:           expander,
		log:                log,
		chunkCfg:           chunkCfg,
		maxConcurrentStore: maxStore,
		pdfFallback:        pdfFallback,
	}
}

// Process runs the full chunking pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}
	job.ContentHash = ContentHashHex([]byte(doc.Text))

	// Phase 2: Chunk
	job.SetStatus(StatusChunking, "chunking")
	res, err := chunker.ChunkDocument(doc, w.chunkCfg)
	if err != nil {
		log.Error("chunking failed", "error", err)
		job.AddError(fmt.Sprintf("chunk: %s", err))
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	for _, warning := range res.Warnings {
		log.Warn("chunking warning", "warning", warning)
	}

	parents, children := countLevels(res.Chunks)
	job.SetChunkCounts(parents, children, len(res.Skipped))
	log.Info("chunked document", "parents", parents, "children", children, "skipped", len(res.Skipped))

	if len(res.Chunks) == 0 {
		// Short documents are a legitimate skip, not a failure.
		log.Info("document skipped", "reason", skipReason(res.Skipped))
		job.SetStats(chunker.Aggregate(res, w.chunkCfg))
		job.SetStatus(StatusSkipped, "chunking")
		return
	}

	// Phase 3: Expand acronyms. Runs after chunking so substitution can
	// never move a chunk boundary.
	if w.expander != nil {
		job.SetStatus(StatusExpanding, "expanding")
		w.expander.Chunks(res.Chunks, w.chunkCfg)
	}

	job.SetStats(chunker.Aggregate(res, w.chunkCfg))

	// Phase 4: Store chunks with bounded concurrency.
	if !w.store.Enabled() {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	job.SetStatus(StatusStoring, "storing")
	hadErrors := w.storeChunks(ctx, job, res.Chunks, log)

	metaErr := w.store.PutMeta(ctx, job.DocID, chunkstore.DocumentMeta{
		SourceFile:   job.Filename,
		Title:        doc.Title,
		ContentHash:  job.ContentHash,
		ParentChunks: parents,
		ChildChunks:  children,
		CreatedAt:    job.CreatedAt,
	})
	if metaErr != nil {
		log.Error("meta write failed", "error", metaErr)
		job.AddError(fmt.Sprintf("meta: %s", metaErr))
		hadErrors = true
	}

	switch {
	case hadErrors && job.Snapshot().Progress.ChunksStored > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "storing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// storeChunks writes every chunk record, retrying transient store
// failures. Returns true if any chunk could not be stored.
func (w *Worker) storeChunks(ctx context.Context, job *Job, chunks []document.Chunk, log *slog.Logger) bool {
	sem := make(chan struct{}, w.maxConcurrentStore)
	type storeResult struct {
		chunkID string
		err     error
	}
	results := make(chan storeResult, len(chunks))

	for _, c := range chunks {
		sem <- struct{}{}
		go func(c document.Chunk) {
			defer func() { <-sem }()
			rec := chunkstore.ChunkRecord{
				ChunkID:         c.ChunkID,
				Level:           c.Level,
				SectionID:       c.SectionID,
				ParentChunkID:   c.ParentChunkID,
				EstimatedTokens: c.EstimatedTokens,
				ContentHash:     c.ContentHash,
				Content:         c.Text,
			}
			var lastErr error
			for attempt := 0; attempt < MaxRetries; attempt++ {
				lastErr = w.store.PutChunk(ctx, job.DocID, rec)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable store error", "chunk_id", c.ChunkID, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- storeResult{chunkID: c.ChunkID, err: ctx.Err()}
					return
				}
			}
			results <- storeResult{chunkID: c.ChunkID, err: lastErr}
		}(c)
	}

	hadErrors := false
	for range chunks {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "chunk_id", r.chunkID, "error", r.err)
			job.AddError(fmt.Sprintf("store %s: %s", r.chunkID, r.err))
			hadErrors = true
			continue
		}
		job.IncrChunksStored()
	}
	return hadErrors
}

func countLevels(chunks []document.Chunk) (parents, children int) {
	for _, c := range chunks {
		if c.Level == document.LevelParent {
			parents++
		} else {
			children++
		}
	}
	return parents, children
}

func skipReason(skipped []document.SkippedSection) string {
	if len(skipped) == 0 {
		return "no content"
	}
	reasons := make([]string, 0, len(skipped))
	for _, s := range skipped {
		reasons = append(reasons, s.Reason)
	}
	return strings.Join(reasons, "; ")
}
