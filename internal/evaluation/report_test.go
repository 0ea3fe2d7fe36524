package evaluation

import (
	"strings"
	"testing"
	"time"
)

func TestReportMarkdown(t *testing.T) {
	r := &Report{
		Metrics: []Metric{
			{ChunkingMethod: "fixed_size", SimilarityAlgorithm: "cosine", Accuracy: 0.5, Precision: 0.5, Recall: 0.5, F1Score: 0.5, LatencyMS: 12.5},
			{ChunkingMethod: "recursive_character", SimilarityAlgorithm: "dot_product", Accuracy: 0.75, Precision: 0.75, Recall: 0.75, F1Score: 0.75, LatencyMS: 8.5},
		},
		Best:        Metric{ChunkingMethod: "recursive_character", SimilarityAlgorithm: "dot_product", F1Score: 0.75},
		Notes:       "two configurations compared",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	md := r.Markdown()

	for _, want := range []string{
		"# RAG Evaluation Report",
		"Best combination: **recursive_character + dot_product** (F1 0.7500)",
		"two configurations compared",
		"## Detailed Results",
		"### By Chunking Method",
		"### By Similarity Algorithm",
		"- cosine: avg F1 0.5000",
		"- dot_product: avg F1 0.7500",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}

	// The result table lists higher F1 first.
	hi := strings.Index(md, "| recursive_character | dot_product |")
	lo := strings.Index(md, "| fixed_size | cosine |")
	if hi < 0 || lo < 0 || hi > lo {
		t.Fatalf("result table not sorted by F1 (hi=%d lo=%d):\n%s", hi, lo, md)
	}
}
