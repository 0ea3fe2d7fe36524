package chunking

// fixedSize slides a window of size chars with stride size-overlap.
// A trailing chunk shorter than overlap is folded into its predecessor so
// retrieval never sees a near-empty tail; the merged chunk is capped at
// size+overlap. Callers validate size and overlap first.
func fixedSize(text string, size, overlap int) []string {
	runes := []rune(text)
	stride := size - overlap

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	if len(chunks) > 1 {
		last := []rune(chunks[len(chunks)-1])
		if len(last) < overlap {
			merged := []rune(chunks[len(chunks)-2])
			merged = append(merged, last...)
			if len(merged) > size+overlap {
				merged = merged[:size+overlap]
			}
			chunks = chunks[:len(chunks)-1]
			chunks[len(chunks)-1] = string(merged)
		}
	}
	return chunks
}
