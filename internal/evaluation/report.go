package evaluation

import (
	"fmt"
	"sort"
	"strings"
)

// Markdown renders the report for humans: best combination up top, the
// full result table sorted by F1, then per-method and per-algorithm
// averages.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# RAG Evaluation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "Best combination: **%s + %s** (F1 %.4f)\n\n",
		r.Best.ChunkingMethod, r.Best.SimilarityAlgorithm, r.Best.F1Score)
	if r.Notes != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Notes)
	}

	b.WriteString("## Detailed Results\n\n")
	b.WriteString("| Chunking Method | Similarity | Accuracy | Precision | Recall | F1 | Avg Latency (ms) |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	sorted := make([]Metric, len(r.Metrics))
	copy(sorted, r.Metrics)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].F1Score > sorted[j].F1Score })
	for _, m := range sorted {
		fmt.Fprintf(&b, "| %s | %s | %.4f | %.4f | %.4f | %.4f | %.2f |\n",
			m.ChunkingMethod, m.SimilarityAlgorithm,
			m.Accuracy, m.Precision, m.Recall, m.F1Score, m.LatencyMS)
	}

	b.WriteString("\n## Analysis\n\n")
	b.WriteString("### By Chunking Method\n\n")
	writeAverages(&b, r.Metrics, func(m Metric) string { return m.ChunkingMethod })
	b.WriteString("\n### By Similarity Algorithm\n\n")
	writeAverages(&b, r.Metrics, func(m Metric) string { return m.SimilarityAlgorithm })

	return b.String()
}

// writeAverages emits one bullet per group with mean F1 and latency,
// keeping first-seen group order.
func writeAverages(b *strings.Builder, metrics []Metric, key func(Metric) string) {
	type agg struct {
		f1, latency float64
		n           int
	}
	var order []string
	groups := map[string]agg{}
	for _, m := range metrics {
		k := key(m)
		g, ok := groups[k]
		if !ok {
			order = append(order, k)
		}
		g.f1 += m.F1Score
		g.latency += m.LatencyMS
		g.n++
		groups[k] = g
	}
	for _, k := range order {
		g := groups[k]
		fmt.Fprintf(b, "- %s: avg F1 %.4f, avg latency %.2f ms\n",
			k, g.f1/float64(g.n), g.latency/float64(g.n))
	}
}
