package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/Kishor978/RAG-System/internal/chunking"
	"github.com/Kishor978/RAG-System/internal/document"
)

// keywordEmbedder embeds text as counts of two keywords, which makes
// relevance a pure dot product and keeps the expected rankings obvious.
type keywordEmbedder struct{}

func (keywordEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	t := strings.ToLower(text)
	return []float32{
		float32(strings.Count(t, "cat")),
		float32(strings.Count(t, "dog")),
	}, nil
}

func (e keywordEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// memoryCollections ranks by dot product, drops zero-score points and
// records the collection lifecycle.
type memoryCollections struct {
	created   []string
	deleted   []string
	distances []string
	points    map[string][]document.Chunk
}

func newMemoryCollections() *memoryCollections {
	return &memoryCollections{points: map[string][]document.Chunk{}}
}

func (s *memoryCollections) CreateCollection(_ context.Context, name string, dimension int, distance string) error {
	if dimension <= 0 {
		return fmt.Errorf("bad dimension %d", dimension)
	}
	s.created = append(s.created, name)
	s.distances = append(s.distances, distance)
	s.points[name] = nil
	return nil
}

func (s *memoryCollections) DeleteCollection(_ context.Context, name string) error {
	s.deleted = append(s.deleted, name)
	delete(s.points, name)
	return nil
}

func (s *memoryCollections) UpsertTo(_ context.Context, collection string, chunks []document.Chunk) error {
	if _, ok := s.points[collection]; !ok {
		return fmt.Errorf("unknown collection %s", collection)
	}
	s.points[collection] = append(s.points[collection], chunks...)
	return nil
}

func (s *memoryCollections) SearchIn(_ context.Context, collection string, vector []float32, limit int) ([]document.ScoredChunk, error) {
	chunks, ok := s.points[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %s", collection)
	}
	var hits []document.ScoredChunk
	for _, c := range chunks {
		var score float64
		for i := range vector {
			if i < len(c.Embedding) {
				score += float64(vector[i]) * float64(c.Embedding[i])
			}
		}
		if score > 0 {
			hits = append(hits, document.ScoredChunk{
				ChunkID:    c.PointID(),
				DocumentID: c.DocumentID,
				Text:       c.Text,
				Score:      score,
			})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func evalDocs() []Document {
	return []Document{
		{DocumentID: "cat-doc", Text: "the cat sat on the cat mat"},
		{DocumentID: "dog-doc", Text: "a dog barked at another dog"},
	}
}

func evalQueries() []TestQuery {
	return []TestQuery{
		{Query: "where is the cat", RelevantDocIDs: []string{"cat-doc"}},
		{Query: "who saw the dog", RelevantDocIDs: []string{"dog-doc"}},
	}
}

func TestBinaryMetrics(t *testing.T) {
	s := binaryMetrics([]int{1, 1, 0, 0}, []int{1, 0, 1, 0})
	for name, got := range map[string]float64{
		"accuracy": s.accuracy, "precision": s.precision,
		"recall": s.recall, "f1": s.f1,
	} {
		if got != 0.5 {
			t.Fatalf("%s: got %v want 0.5", name, got)
		}
	}

	perfect := binaryMetrics([]int{1, 1}, []int{1, 1})
	if perfect.accuracy != 1 || perfect.precision != 1 || perfect.recall != 1 || perfect.f1 != 1 {
		t.Fatalf("all-correct labels should score 1.0 everywhere, got %+v", perfect)
	}

	empty := binaryMetrics(nil, nil)
	if empty != (scores{}) {
		t.Fatalf("empty labels should score zero, got %+v", empty)
	}
}

func TestRun_SeparableCorpusScoresPerfectly(t *testing.T) {
	store := newMemoryCollections()
	cfg := chunking.Config{ChunkSize: 50, Overlap: 10, Separators: chunking.DefaultConfig().Separators}
	ev := NewEvaluator(keywordEmbedder{}, store, cfg)

	report, err := ev.Run(context.Background(), evalDocs(), evalQueries(), nil, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Metrics) != 4 {
		t.Fatalf("expected 2 methods x 2 algorithms = 4 metrics, got %d", len(report.Metrics))
	}
	for _, m := range report.Metrics {
		if m.F1Score != 1 || m.Precision != 1 || m.Recall != 1 || m.Accuracy != 1 {
			t.Fatalf("separable corpus should score perfectly, got %+v", m)
		}
	}
	if report.Best.F1Score != 1 {
		t.Fatalf("best combination F1: got %v", report.Best.F1Score)
	}

	if len(store.created) != 4 || len(store.deleted) != 4 {
		t.Fatalf("expected 4 temp collections created and deleted, got %d and %d", len(store.created), len(store.deleted))
	}
	for _, name := range store.created {
		if !strings.HasPrefix(name, "temp_eval_") {
			t.Fatalf("temp collection %q lacks the temp_eval_ prefix", name)
		}
	}
	var sawCosine, sawDot bool
	for _, d := range store.distances {
		switch d {
		case "Cosine":
			sawCosine = true
		case "Dot":
			sawDot = true
		}
	}
	if !sawCosine || !sawDot {
		t.Fatalf("expected both Cosine and Dot collections, got %v", store.distances)
	}
}

func TestRun_EmptyInputsRejected(t *testing.T) {
	ev := NewEvaluator(keywordEmbedder{}, newMemoryCollections(), chunking.DefaultConfig())

	if _, err := ev.Run(context.Background(), nil, evalQueries(), nil, nil); !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if _, err := ev.Run(context.Background(), evalDocs(), nil, nil, nil); !errors.Is(err, ErrNoQueries) {
		t.Fatalf("expected ErrNoQueries, got %v", err)
	}
}

type failingUpsert struct{ *memoryCollections }

func (failingUpsert) UpsertTo(context.Context, string, []document.Chunk) error {
	return errors.New("upsert down")
}

// A failed configuration must still drop its temp collection.
func TestRun_TempCollectionDroppedOnFailure(t *testing.T) {
	store := newMemoryCollections()
	ev := NewEvaluator(keywordEmbedder{}, failingUpsert{store}, chunking.DefaultConfig())

	_, err := ev.Run(context.Background(), evalDocs(), evalQueries(), nil, nil)
	if err == nil {
		t.Fatal("expected run to fail when upsert fails")
	}
	if len(store.created) != 1 || len(store.deleted) != 1 || store.created[0] != store.deleted[0] {
		t.Fatalf("temp collection not cleaned up: created=%v deleted=%v", store.created, store.deleted)
	}
}

func TestDistanceName(t *testing.T) {
	cases := map[string]string{
		"cosine":      "Cosine",
		"dot_product": "Dot",
		"euclidean":   "Cosine",
	}
	for in, want := range cases {
		if got := distanceName(in); got != want {
			t.Fatalf("distanceName(%q): got %q want %q", in, got, want)
		}
	}
}
