package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/ragchunk/internal/chunker"
)

type Config struct {
	Port string

	// Chunkstore connection (optional; empty URL disables storage).
	ChunkstoreURL    string
	ChunkstoreAPIKey string

	// Auth
	RagchunkAPIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentStore int

	// Upload limits
	MaxUploadBytes int64

	// Chunking parameters (see chunker.Config).
	ModelContextWindow     int
	TargetContextUsage     float64
	ParentChunkSize        int
	ChildChunkSize         int
	OverlapSize            int
	MinChunkSize           int
	PreferSentenceBoundary bool
	PreserveCodeBlocks     bool
	CharsPerToken          int

	// Acronym expansion
	ExpandAcronyms bool
	AcronymFile    string

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	defaults := chunker.DefaultConfig()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		ChunkstoreURL:    os.Getenv("CHUNKSTORE_URL"),
		ChunkstoreAPIKey: os.Getenv("CHUNKSTORE_API_KEY"),

		RagchunkAPIKey: os.Getenv("RAGCHUNK_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentStore: envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		ModelContextWindow:     envInt("MODEL_CONTEXT_WINDOW", defaults.ModelContextWindow),
		TargetContextUsage:     envFloat("TARGET_CONTEXT_USAGE", defaults.TargetContextUsage),
		ParentChunkSize:        envInt("PARENT_CHUNK_SIZE", defaults.ParentChunkSize),
		ChildChunkSize:         envInt("CHILD_CHUNK_SIZE", defaults.ChildChunkSize),
		OverlapSize:            envInt("OVERLAP_SIZE", defaults.OverlapSize),
		MinChunkSize:           envInt("MIN_CHUNK_SIZE", defaults.MinChunkSize),
		PreferSentenceBoundary: envBool("PREFER_SENTENCE_BOUNDARY", defaults.PreferSentenceBoundary),
		PreserveCodeBlocks:     envBool("PRESERVE_CODE_BLOCKS", defaults.PreserveCodeBlocks),
		CharsPerToken:          envInt("CHARS_PER_TOKEN", defaults.CharsPerToken),

		ExpandAcronyms: envBool("EXPAND_ACRONYMS", true),
		AcronymFile:    os.Getenv("ACRONYM_FILE"),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Chunker assembles the core chunking configuration.
func (c Config) Chunker() chunker.Config {
	return chunker.Config{
		ModelContextWindow:     c.ModelContextWindow,
		TargetContextUsage:     c.TargetContextUsage,
		ParentChunkSize:        c.ParentChunkSize,
		ChildChunkSize:         c.ChildChunkSize,
		OverlapSize:            c.OverlapSize,
		MinChunkSize:           c.MinChunkSize,
		PreferSentenceBoundary: c.PreferSentenceBoundary,
		PreserveCodeBlocks:     c.PreserveCodeBlocks,
		CharsPerToken:          c.CharsPerToken,
	}
}

// Validate fails fast before any document is processed. Chunking size
// violations surface the offending field by name.
func (c Config) Validate() error {
	if c.RagchunkAPIKey == "" {
		return fmt.Errorf("RAGCHUNK_API_KEY is required")
	}
	if c.ChunkstoreURL != "" && c.ChunkstoreAPIKey == "" {
		return fmt.Errorf("CHUNKSTORE_API_KEY is required when CHUNKSTORE_URL is set")
	}
	if err := c.Chunker().Validate(); err != nil {
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
