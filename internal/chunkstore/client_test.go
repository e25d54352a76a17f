package chunkstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgallion1/ragchunk/internal/document"
)

func TestClient_PutChunk(t *testing.T) {
	var gotPath, gotAuth string
	var gotRecord ChunkRecord
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRecord); err != nil {
			t.Errorf("bad body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	rec := ChunkRecord{
		ChunkID:   "doc_s1_P1",
		Level:     document.LevelParent,
		SectionID: "doc_s1",
		Content:   "chunk body",
	}
	if err := c.PutChunk(context.Background(), "doc123", rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/documents/doc123/chunks/doc_s1_P1" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotRecord.ChunkID != rec.ChunkID || gotRecord.Content != rec.Content {
		t.Errorf("record mismatch: %+v", gotRecord)
	}
	if c.Stats.Snapshot().Count != 1 {
		t.Error("expected the call latency to be recorded")
	}
}

func TestClient_RetryableStatusCodes(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		c := NewClient(srv.URL, "k")
		err := c.PutChunk(context.Background(), "d", ChunkRecord{ChunkID: "c1"})
		srv.Close()

		var retryErr *RetryableError
		if !errors.As(err, &retryErr) {
			t.Errorf("status %d: expected RetryableError, got %v", code, err)
			continue
		}
		if retryErr.StatusCode != code {
			t.Errorf("expected status %d in error, got %d", code, retryErr.StatusCode)
		}
	}
}

func TestClient_NonRetryableStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	err := c.PutChunk(context.Background(), "d", ChunkRecord{ChunkID: "c1"})
	if err == nil {
		t.Fatal("expected an error")
	}
	var retryErr *RetryableError
	if errors.As(err, &retryErr) {
		t.Error("400 must not be retryable")
	}
}

func TestClient_Disabled(t *testing.T) {
	c := NewClient("", "")
	if c.Enabled() {
		t.Fatal("client without a base URL must be disabled")
	}
	if err := c.PutChunk(context.Background(), "d", ChunkRecord{}); err != nil {
		t.Errorf("disabled PutChunk should be a no-op, got %v", err)
	}
	if err := c.PutMeta(context.Background(), "d", DocumentMeta{}); err != nil {
		t.Errorf("disabled PutMeta should be a no-op, got %v", err)
	}
	docs, err := c.ListDocuments(context.Background(), 10)
	if err != nil || docs != nil {
		t.Errorf("disabled ListDocuments should return nothing, got %v, %v", docs, err)
	}
}

func TestClient_ListDocuments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "50" {
			t.Errorf("expected limit=50, got %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"documents": []DocumentInfo{
				{DocID: "abc", Meta: DocumentMeta{Title: "First"}},
				{DocID: "def", Meta: DocumentMeta{Title: "Second"}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	docs, err := c.ListDocuments(context.Background(), 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].DocID != "abc" || docs[1].Meta.Title != "Second" {
		t.Errorf("unexpected documents %+v", docs)
	}
}

func TestClient_DeleteDocument(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		if r.URL.Query().Get("chunks") != "true" {
			t.Errorf("expected chunks=true, got %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if err := c.DeleteDocument(context.Background(), "abc"); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/documents/abc" {
		t.Errorf("unexpected request %s %s", gotMethod, gotPath)
	}
}

func TestRetryableError_TruncatesMessage(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	e := &RetryableError{StatusCode: 503, Message: string(long)}
	if len(e.Error()) > 260 {
		t.Errorf("expected truncated message, got %d chars", len(e.Error()))
	}
}
