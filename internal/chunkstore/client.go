// Package chunkstore ships finished chunk records to a downstream
// vector-ingest service over HTTP. The chunker core never talks to the
// store; only the pipeline worker does, after a run completes.
package chunkstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dgallion1/ragchunk/internal/document"
)

// Client communicates with the chunk store HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	// Stats tracks recent store call latencies.
	Stats *StoreStats
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		Stats: NewStoreStats(time.Hour),
	}
}

// Enabled reports whether a store endpoint is configured. A disabled
// client turns every call into a no-op so the pipeline can run without
// a downstream store.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// ChunkRecord is the body for PUT /documents/{docID}/chunks/{chunkID}.
type ChunkRecord struct {
	ChunkID         string         `json:"chunk_id"`
	Level           document.Level `json:"level"`
	SectionID       string         `json:"section_id"`
	ParentChunkID   string         `json:"parent_chunk_id,omitempty"`
	EstimatedTokens int            `json:"estimated_tokens"`
	ContentHash     string         `json:"content_hash"`
	Content         string         `json:"content"`
}

// DocumentMeta is the body for PUT /documents/{docID}/meta.
type DocumentMeta struct {
	SourceFile   string    `json:"source_file"`
	Title        string    `json:"title"`
	ContentHash  string    `json:"content_hash"`
	ParentChunks int       `json:"parent_chunks"`
	ChildChunks  int       `json:"child_chunks"`
	CreatedAt    time.Time `json:"created_at"`
}

// DocumentInfo is one entry from GET /documents.
type DocumentInfo struct {
	DocID string       `json:"doc_id"`
	Meta  DocumentMeta `json:"meta"`
}

// PutChunk stores one chunk record under a document.
func (c *Client) PutChunk(ctx context.Context, docID string, rec ChunkRecord) error {
	if !c.Enabled() {
		return nil
	}
	path := fmt.Sprintf("/documents/%s/chunks/%s", url.PathEscape(docID), url.PathEscape(rec.ChunkID))
	return c.put(ctx, path, rec)
}

// PutMeta stores document-level metadata after all chunks are written.
func (c *Client) PutMeta(ctx context.Context, docID string, meta DocumentMeta) error {
	if !c.Enabled() {
		return nil
	}
	path := fmt.Sprintf("/documents/%s/meta", url.PathEscape(docID))
	return c.put(ctx, path, meta)
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.Stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RetryableError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("put %s: status %d: %s", path, resp.StatusCode, string(respBody))
	}
	return nil
}

// ListDocuments returns stored document metadata entries.
func (c *Client) ListDocuments(ctx context.Context, limit int) ([]DocumentInfo, error) {
	if !c.Enabled() {
		return nil, nil
	}
	u := c.baseURL + "/documents"
	if limit > 0 {
		u += fmt.Sprintf("?limit=%d", limit)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("list documents: status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Documents []DocumentInfo `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}
	return result.Documents, nil
}

// DeleteDocument removes a document and all its chunks from the store.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	if !c.Enabled() {
		return nil
	}
	u := fmt.Sprintf("%s/documents/%s?chunks=true", c.baseURL, url.PathEscape(docID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delete document %s: status %d: %s", docID, resp.StatusCode, string(respBody))
	}
	return nil
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	msg := e.Message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, msg)
}

// Close releases any resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
