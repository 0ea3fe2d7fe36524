package document

import (
	"fmt"
	"time"
)

// Document is the relational metadata row for one ingested document.
type Document struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	DocumentID       string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"document_id"`
	Filename         string    `gorm:"type:varchar(255);not null" json:"filename"`
	ChunkingStrategy string    `gorm:"type:varchar(32);not null" json:"chunking_strategy"`
	NumChunks        int       `gorm:"not null" json:"num_chunks"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
)

// IngestJob carries one queued ingestion through the worker. The raw text
// travels with the row so the worker needs no shared filesystem.
type IngestJob struct {
	ID string `gorm:"primaryKey;size:26"` // ULID length

	DocumentID string `gorm:"size:26;index;not null"`
	Filename   string `gorm:"type:varchar(255);not null"`
	Strategy   string `gorm:"type:varchar(32);not null"`
	RawText    string `gorm:"type:longtext;not null"`

	Status JobStatus `gorm:"type:varchar(16);index;not null"`

	// Filled when failed
	Error *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (IngestJob) TableName() string { return "ingest_jobs" }

// Chunk is the retrieval unit produced by the chunking engine. The
// embedding is empty until the embedder fills it downstream.
type Chunk struct {
	DocumentID string            `json:"document_id"`
	ChunkIndex int               `json:"chunk_index"`
	Text       string            `json:"text"`
	Embedding  []float32         `json:"embedding,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// PointID identifies the chunk in the vector index.
func (c Chunk) PointID() string {
	return fmt.Sprintf("%s:%d", c.DocumentID, c.ChunkIndex)
}

// ScoredChunk is a search hit returned by the vector index.
type ScoredChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}
