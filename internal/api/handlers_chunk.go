package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/ragchunk/internal/chunker"
	"github.com/dgallion1/ragchunk/internal/document"
	"github.com/dgallion1/ragchunk/internal/parser"
	"github.com/dgallion1/ragchunk/internal/render"
)

// handleChunk runs the chunker synchronously and returns the result in
// the requested format. Accepts either a multipart file upload or a
// JSON body with inline text.
func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	doc, err := s.readChunkInput(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := s.chunkConfigFromRequest(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := chunker.ChunkDocument(doc, cfg)
	if err != nil {
		jsonError(w, "chunking failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if s.expander != nil && boolParam(r, "expand", s.cfg.ExpandAcronyms) {
		s.expander.Chunks(res.Chunks, cfg)
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := render.WriteJSON(w, res, cfg); err != nil {
			s.log.Error("write response", "error", err)
		}
	case "rag":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := render.WriteRAGLines(w, res.Chunks); err != nil {
			s.log.Error("write response", "error", err)
		}
	case "report":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := render.WriteReport(w, res, cfg); err != nil {
			s.log.Error("write response", "error", err)
		}
	case "stats":
		w.Header().Set("Content-Type", "application/json")
		if err := render.WriteStats(w, chunker.Aggregate(res, cfg)); err != nil {
			s.log.Error("write response", "error", err)
		}
	default:
		jsonError(w, "unknown format (want json, rag, report or stats)", http.StatusBadRequest)
	}
}

// readChunkInput extracts the document from either a multipart upload
// or a JSON body.
func (s *Server) readChunkInput(r *http.Request) (document.Document, error) {
	ct := r.Header.Get("Content-Type")

	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return document.Document{}, fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return document.Document{}, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()

		filename := sanitizeFilename(header.Filename)
		p, err := parser.ForFile(filename)
		if err != nil {
			return document.Document{}, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
		}
		data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			return document.Document{}, fmt.Errorf("failed to read file")
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			return document.Document{}, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
		}
		doc, err := p.Parse(bytes.NewReader(data), filename)
		if err != nil {
			return document.Document{}, fmt.Errorf("parse: %w", err)
		}
		if title := r.FormValue("title"); title != "" {
			doc.Title = title
		}
		return doc, nil
	}

	var body struct {
		Text     string `json:"text"`
		Title    string `json:"title"`
		SourceID string `json:"source_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return document.Document{}, fmt.Errorf("invalid json body: %w", err)
	}
	if strings.TrimSpace(body.Text) == "" {
		return document.Document{}, fmt.Errorf("text is required")
	}
	if body.SourceID == "" {
		body.SourceID = "inline"
	}
	return document.Document{
		SourceID: body.SourceID,
		Title:    body.Title,
		Text:     body.Text,
	}, nil
}

// chunkConfigFromRequest applies per-request size overrides on top of
// the server defaults, then validates the combination.
func (s *Server) chunkConfigFromRequest(r *http.Request) (chunker.Config, error) {
	cfg := s.cfg.Chunker()
	q := r.URL.Query()

	overrides := []struct {
		name string
		dst  *int
	}{
		{"parent_chunk_size", &cfg.ParentChunkSize},
		{"child_chunk_size", &cfg.ChildChunkSize},
		{"overlap_size", &cfg.OverlapSize},
		{"min_chunk_size", &cfg.MinChunkSize},
		{"model_context_window", &cfg.ModelContextWindow},
	}
	for _, o := range overrides {
		v := q.Get(o.name)
		if v == "" {
			v = r.FormValue(o.name)
		}
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %q", o.name, v)
		}
		*o.dst = n
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func boolParam(r *http.Request, name string, fallback bool) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		v = r.FormValue(name)
	}
	if v == "" {
		return fallback
	}
	return v == "true" || v == "1"
}
