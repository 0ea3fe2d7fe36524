// Package qdrant is a minimal REST client for the chunk vector index.
// It assumes cosine distance and creates the collection if missing.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Kishor978/RAG-System/internal/document"
)

type Config struct {
	BaseURL    string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

type Store struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:6333"
	}
	if cfg.Collection == "" {
		cfg.Collection = "documents"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// errAlreadyExists marks a 409 from Qdrant. Collection creation treats it
// as success; some server versions answer 409 instead of acknowledging an
// existing collection.
var errAlreadyExists = errors.New("qdrant: already exists")

// EnsureCollection creates the default collection and the document_id
// payload index used for per-document deletes. Safe to call on every
// startup: an already-existing collection is not an error.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	if err := s.CreateCollection(ctx, s.collection, dimension, "Cosine"); err != nil {
		return err
	}

	idx := map[string]any{
		"field_name":   "document_id",
		"field_schema": "keyword",
	}
	// Index creation fails with 4xx when it already exists; ignore.
	_ = s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/index", s.baseURL, s.collection), idx)
	return nil
}

// CreateCollection creates a named collection with the given vector size
// and distance ("Cosine", "Dot", "Euclid"). A 409 means the collection is
// already there and is treated as success.
func (s *Store) CreateCollection(ctx context.Context, name string, dimension int, distance string) error {
	if dimension <= 0 {
		return errors.New("qdrant: invalid vector dimension")
	}
	if distance == "" {
		distance = "Cosine"
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": distance,
		},
	}
	err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.baseURL, name), body)
	if errors.Is(err, errAlreadyExists) {
		return nil
	}
	return err
}

// DeleteCollection drops a named collection and all of its points.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/collections/%s", s.baseURL, name), nil)
	if err != nil {
		return err
	}
	return s.do(req, nil)
}

// pointID derives a stable Qdrant-acceptable UUID from the chunk's
// logical id, so re-ingesting a document overwrites its points.
func pointID(c document.Chunk) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.PointID())).String()
}

// UpsertChunks writes the chunk vectors with their payloads into the
// default collection.
func (s *Store) UpsertChunks(ctx context.Context, chunks []document.Chunk) error {
	return s.UpsertTo(ctx, s.collection, chunks)
}

// UpsertTo writes the chunk vectors into a named collection.
func (s *Store) UpsertTo(ctx context.Context, collection string, chunks []document.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	points := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("qdrant: chunk %s has no embedding", c.PointID())
		}
		payload := map[string]any{
			"chunk_id":    c.PointID(),
			"document_id": c.DocumentID,
			"chunk_index": c.ChunkIndex,
			"text":        c.Text,
		}
		for k, v := range c.Metadata {
			payload[k] = v
		}
		points[i] = map[string]any{
			"id":      pointID(c),
			"vector":  c.Embedding,
			"payload": payload,
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.baseURL, collection), body)
}

// Search returns the top matching chunks for a query vector from the
// default collection.
func (s *Store) Search(ctx context.Context, vector []float32, limit int) ([]document.ScoredChunk, error) {
	return s.SearchIn(ctx, s.collection, vector, limit)
}

// SearchIn runs a vector search against a named collection.
func (s *Store) SearchIn(ctx context.Context, collection string, vector []float32, limit int) ([]document.ScoredChunk, error) {
	if limit <= 0 {
		limit = 5
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.baseURL, collection), req, &resp); err != nil {
		return nil, err
	}

	results := make([]document.ScoredChunk, 0, len(resp.Result))
	for _, r := range resp.Result {
		sc := document.ScoredChunk{Score: r.Score}
		if v, ok := r.Payload["chunk_id"].(string); ok {
			sc.ChunkID = v
		}
		if v, ok := r.Payload["document_id"].(string); ok {
			sc.DocumentID = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			sc.Text = v
		}
		results = append(results, sc)
	}
	return results, nil
}

// DeleteDocument removes every point belonging to one document.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}
	return s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.baseURL, s.collection), body, nil)
}

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return s.do(req, nil)
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	return s.do(req, out)
}

func (s *Store) do(req *http.Request, out any) error {
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusConflict {
		return fmt.Errorf("%w: %s %s", errAlreadyExists, req.Method, req.URL.Path)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant %s %s failed: %s", req.Method, req.URL.Path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
