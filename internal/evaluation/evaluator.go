// Package evaluation benchmarks chunking-strategy and similarity-algorithm
// combinations against a labeled retrieval set. Each combination gets its
// own throwaway collection so runs never touch production vectors.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kishor978/RAG-System/internal/chunking"
	"github.com/Kishor978/RAG-System/internal/document"
)

var (
	ErrNoDocuments = errors.New("evaluation: no documents")
	ErrNoQueries   = errors.New("evaluation: no test queries")
)

// searchLimit is the retrieval depth per test query.
const searchLimit = 5

// Document is a raw evaluation document with a caller-chosen id that the
// test queries reference.
type Document struct {
	DocumentID string `json:"document_id"`
	Text       string `json:"text"`
}

// TestQuery pairs a query with the document ids a good retrieval should
// surface for it.
type TestQuery struct {
	Query          string   `json:"query"`
	RelevantDocIDs []string `json:"relevant_doc_ids"`
}

// Metric holds the retrieval scores for one (method, algorithm) pair.
type Metric struct {
	ChunkingMethod      string  `json:"chunking_method"`
	SimilarityAlgorithm string  `json:"similarity_algorithm"`
	Accuracy            float64 `json:"accuracy"`
	Precision           float64 `json:"precision"`
	Recall              float64 `json:"recall"`
	F1Score             float64 `json:"f1_score"`
	LatencyMS           float64 `json:"avg_latency_ms"`
}

// Report is the full evaluation outcome. Best is the metric with the
// highest F1 score.
type Report struct {
	Metrics     []Metric  `json:"metrics"`
	Best        Metric    `json:"best_combination"`
	Notes       string    `json:"notes"`
	GeneratedAt time.Time `json:"generated_at"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// CollectionStore is the slice of the vector store the evaluator needs:
// per-run collections it can create, fill, query and drop.
type CollectionStore interface {
	CreateCollection(ctx context.Context, name string, dimension int, distance string) error
	DeleteCollection(ctx context.Context, name string) error
	UpsertTo(ctx context.Context, collection string, chunks []document.Chunk) error
	SearchIn(ctx context.Context, collection string, vector []float32, limit int) ([]document.ScoredChunk, error)
}

type Evaluator struct {
	embedder Embedder
	store    CollectionStore
	cfg      chunking.Config
}

func NewEvaluator(embedder Embedder, store CollectionStore, cfg chunking.Config) *Evaluator {
	if cfg.ChunkSize == 0 {
		cfg = chunking.DefaultConfig()
	}
	return &Evaluator{embedder: embedder, store: store, cfg: cfg}
}

func defaultMethods() []chunking.Strategy {
	return []chunking.Strategy{chunking.StrategyFixedSize, chunking.StrategyRecursive}
}

func defaultAlgorithms() []string {
	return []string{"cosine", "dot_product"}
}

// Run evaluates every (method, algorithm) combination and returns the
// collected metrics. Documents are chunked and embedded once per method
// and reused across that method's algorithms.
func (e *Evaluator) Run(ctx context.Context, docs []Document, queries []TestQuery, methods []chunking.Strategy, algorithms []string) (*Report, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}
	if len(methods) == 0 {
		methods = defaultMethods()
	}
	if len(algorithms) == 0 {
		algorithms = defaultAlgorithms()
	}

	report := &Report{GeneratedAt: time.Now().UTC()}
	for _, method := range methods {
		chunks, err := e.chunkAndEmbed(ctx, docs, method)
		if err != nil {
			return nil, fmt.Errorf("prepare %s: %w", method, err)
		}
		for _, algorithm := range algorithms {
			m, err := e.evaluateConfiguration(ctx, chunks, queries, method, algorithm)
			if err != nil {
				return nil, err
			}
			report.Metrics = append(report.Metrics, m)
		}
	}

	best := report.Metrics[0]
	for _, m := range report.Metrics[1:] {
		if m.F1Score > best.F1Score {
			best = m
		}
	}
	report.Best = best
	report.Notes = fmt.Sprintf("Best combination selected by F1 score across %d configurations.", len(report.Metrics))
	return report, nil
}

func (e *Evaluator) chunkAndEmbed(ctx context.Context, docs []Document, method chunking.Strategy) ([]document.Chunk, error) {
	var out []document.Chunk
	for _, d := range docs {
		parts, err := chunking.Chunk(d.Text, e.cfg, method)
		if err != nil {
			return nil, err
		}
		for i, p := range parts {
			out = append(out, document.Chunk{
				DocumentID: d.DocumentID,
				ChunkIndex: i,
				Text:       p,
			})
		}
	}
	if len(out) == 0 {
		return nil, errors.New("evaluation: documents produced no chunks")
	}

	texts := make([]string, len(out))
	for i := range out {
		texts[i] = out[i].Text
	}
	vectors, err := e.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(out) {
		return nil, fmt.Errorf("evaluation: got %d embeddings for %d chunks", len(vectors), len(out))
	}
	for i := range out {
		out[i].Embedding = vectors[i]
	}
	return out, nil
}

// evaluateConfiguration runs every query against a temporary collection
// holding the pre-embedded chunks. The collection is dropped on the way
// out, error or not.
func (e *Evaluator) evaluateConfiguration(ctx context.Context, chunks []document.Chunk, queries []TestQuery, method chunking.Strategy, algorithm string) (Metric, error) {
	name := tempCollectionName()
	if err := e.store.CreateCollection(ctx, name, len(chunks[0].Embedding), distanceName(algorithm)); err != nil {
		return Metric{}, fmt.Errorf("create collection %s: %w", name, err)
	}
	defer func() {
		if err := e.store.DeleteCollection(ctx, name); err != nil {
			log.Printf("[evaluation] drop collection %s: %v", name, err)
		}
	}()

	if err := e.store.UpsertTo(ctx, name, chunks); err != nil {
		return Metric{}, fmt.Errorf("upsert into %s: %w", name, err)
	}

	var yTrue, yPred []int
	var totalLatency float64
	for _, q := range queries {
		start := time.Now()
		vec, err := e.embedder.Embed(ctx, q.Query)
		if err != nil {
			return Metric{}, fmt.Errorf("embed query %q: %w", q.Query, err)
		}
		hits, err := e.store.SearchIn(ctx, name, vec, searchLimit)
		if err != nil {
			return Metric{}, fmt.Errorf("search %s: %w", name, err)
		}
		totalLatency += float64(time.Since(start).Microseconds()) / 1000.0

		retrieved := make(map[string]bool, len(hits))
		for _, h := range hits {
			retrieved[h.DocumentID] = true
		}
		expected := make(map[string]bool, len(q.RelevantDocIDs))
		for _, id := range q.RelevantDocIDs {
			expected[id] = true
			yTrue = append(yTrue, 1)
			if retrieved[id] {
				yPred = append(yPred, 1)
			} else {
				yPred = append(yPred, 0)
			}
		}
		// Every hit from an unexpected document is a false positive.
		for _, h := range hits {
			if !expected[h.DocumentID] {
				yTrue = append(yTrue, 0)
				yPred = append(yPred, 1)
			}
		}
	}

	s := binaryMetrics(yTrue, yPred)
	return Metric{
		ChunkingMethod:      string(method),
		SimilarityAlgorithm: algorithm,
		Accuracy:            s.accuracy,
		Precision:           s.precision,
		Recall:              s.recall,
		F1Score:             s.f1,
		LatencyMS:           totalLatency / float64(len(queries)),
	}, nil
}

func tempCollectionName() string {
	return "temp_eval_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// distanceName maps an algorithm label onto Qdrant's distance name.
// Unknown labels fall back to cosine with a warning rather than failing a
// whole run.
func distanceName(algorithm string) string {
	switch algorithm {
	case "cosine":
		return "Cosine"
	case "dot_product":
		return "Dot"
	default:
		log.Printf("[evaluation] unknown similarity algorithm %q, using cosine", algorithm)
		return "Cosine"
	}
}

type scores struct {
	accuracy  float64
	precision float64
	recall    float64
	f1        float64
}

// binaryMetrics computes accuracy/precision/recall/F1 over parallel binary
// label slices. Empty input and zero denominators score 0, never NaN.
func binaryMetrics(yTrue, yPred []int) scores {
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return scores{}
	}
	var tp, fp, fn, correct int
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			tp++
		case yTrue[i] == 0 && yPred[i] == 1:
			fp++
		case yTrue[i] == 1 && yPred[i] == 0:
			fn++
		}
	}
	s := scores{accuracy: float64(correct) / float64(len(yTrue))}
	if tp+fp > 0 {
		s.precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		s.recall = float64(tp) / float64(tp+fn)
	}
	if s.precision+s.recall > 0 {
		s.f1 = 2 * s.precision * s.recall / (s.precision + s.recall)
	}
	return s
}
