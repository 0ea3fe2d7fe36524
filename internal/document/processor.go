// Package document owns ingestion: text validation, chunking, embedding
// and vector upsert, plus the relational metadata for what was ingested.
package document

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Kishor978/RAG-System/internal/chunking"
)

var (
	// ErrEmptyDocument rejects uploads whose extracted text is empty:
	// a rejected-input condition, never retried here.
	ErrEmptyDocument = errors.New("document contains no extractable text")

	// ErrUnsupportedType rejects content types no extractor handles.
	ErrUnsupportedType = errors.New("unsupported content type")
)

// Embedder produces one vector per input text.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore persists chunk vectors for similarity search.
type VectorStore interface {
	UpsertChunks(ctx context.Context, chunks []Chunk) error
	DeleteDocument(ctx context.Context, documentID string) error
}

// Processor runs the ingestion pipeline for one document at a time.
// Chunking is side-effect-free, so independent documents may be processed
// concurrently; chunk order within a document follows the split order.
type Processor struct {
	repo     *Repo
	embedder Embedder
	store    VectorStore
	cfg      chunking.Config
}

func NewProcessor(repo *Repo, embedder Embedder, store VectorStore, cfg chunking.Config) *Processor {
	if cfg.ChunkSize == 0 {
		cfg = chunking.DefaultConfig()
	}
	return &Processor{repo: repo, embedder: embedder, store: store, cfg: cfg}
}

// ExtractText turns uploaded bytes into raw text. Only text/plain is
// handled here; producing text from richer formats is an upstream concern.
func ExtractText(content []byte, contentType string) (string, error) {
	switch contentType {
	case "text/plain":
		return string(content), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
}

// Ingest chunks, embeds and upserts the job's text, then records the
// document metadata. Returns the number of chunks produced.
func (p *Processor) Ingest(ctx context.Context, job *IngestJob) (int, error) {
	if chunking.Normalize(job.RawText) == "" {
		return 0, ErrEmptyDocument
	}

	texts, err := chunking.Chunk(job.RawText, p.cfg, chunking.Strategy(job.Strategy))
	if err != nil {
		return 0, err
	}
	if len(texts) == 0 {
		return 0, ErrEmptyDocument
	}

	chunks := make([]Chunk, 0, len(texts))
	for i, t := range texts {
		chunks = append(chunks, Chunk{
			DocumentID: job.DocumentID,
			ChunkIndex: i,
			Text:       t,
			Metadata:   map[string]string{"filename": job.Filename},
		})
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := p.store.UpsertChunks(ctx, chunks); err != nil {
		return 0, fmt.Errorf("upsert chunks: %w", err)
	}

	if err := p.repo.CreateDocument(ctx, &Document{
		DocumentID:       job.DocumentID,
		Filename:         job.Filename,
		ChunkingStrategy: job.Strategy,
		NumChunks:        len(chunks),
	}); err != nil {
		return 0, fmt.Errorf("save document metadata: %w", err)
	}

	return len(chunks), nil
}

// ProcessJob drives one queued job through its status transitions.
func (p *Processor) ProcessJob(ctx context.Context, jobID string) error {
	_ = p.repo.UpdateJobStatusRunning(ctx, jobID)

	job, err := p.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}

	n, err := p.Ingest(ctx, job)
	if err != nil {
		_ = p.repo.MarkJobFailed(ctx, jobID, err.Error())
		return err
	}

	if err := p.repo.MarkJobSucceeded(ctx, jobID); err != nil {
		return err
	}
	log.Printf("[ingest] job=%s document=%s chunks=%d", jobID, job.DocumentID, n)
	return nil
}

// Delete removes a document's vectors and its metadata row.
func (p *Processor) Delete(ctx context.Context, documentID string) error {
	if err := p.store.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	return p.repo.DeleteDocument(ctx, documentID)
}
