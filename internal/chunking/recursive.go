package chunking

import (
	"strings"
	"unicode/utf8"
)

// recursiveSplit splits text on seps[0], recursing into the finer
// separators for any part that still exceeds size. The empty-string
// separator terminates the descent: spans that cannot be split further
// fall back to fixed-size slicing. Adjacent parts are greedily re-merged
// at each level using that level's own separator as the join string, so
// a part produced three levels down is never glued back together with a
// separator from a different level.
func recursiveSplit(text string, size, overlap int, seps []string) []string {
	sep := seps[0]
	if sep == "" {
		if utf8.RuneCountInString(text) > size {
			return fixedSize(text, size, overlap)
		}
		return []string{text}
	}

	var parts []string
	for _, p := range strings.Split(text, sep) {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if utf8.RuneCountInString(p) > size {
			parts = append(parts, recursiveSplit(p, size, overlap, seps[1:])...)
		} else {
			parts = append(parts, p)
		}
	}
	return mergeParts(parts, sep, size, overlap)
}

// mergeParts accumulates adjacent parts into the current chunk while
// len(current)+len(next)-overlap still fits in size, joining with the
// separator the parts were split on. Once all chunks fit, no further
// merging happens at coarser levels beyond this same rule.
func mergeParts(parts []string, sep string, size, overlap int) []string {
	if len(parts) == 0 {
		return nil
	}
	merged := []string{parts[0]}
	for _, next := range parts[1:] {
		cur := merged[len(merged)-1]
		if utf8.RuneCountInString(cur)+utf8.RuneCountInString(next)-overlap <= size {
			merged[len(merged)-1] = cur + sep + next
		} else {
			merged = append(merged, next)
		}
	}
	return merged
}
