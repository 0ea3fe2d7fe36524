package chunking

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunk_InvalidConfig(t *testing.T) {
	bad := []Config{
		{ChunkSize: 0, Overlap: 0},
		{ChunkSize: -10, Overlap: 0},
		{ChunkSize: 100, Overlap: -1},
		{ChunkSize: 100, Overlap: 100},
		{ChunkSize: 100, Overlap: 150},
	}
	for _, cfg := range bad {
		for _, strat := range []Strategy{StrategyFixedSize, StrategyRecursive} {
			chunks, err := Chunk("some text", cfg, strat)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("cfg=%+v strategy=%s: expected ErrInvalidConfig, got %v", cfg, strat, err)
			}
			if chunks != nil {
				t.Fatalf("cfg=%+v strategy=%s: expected no chunks on config error", cfg, strat)
			}
		}
	}
}

// A separator list without the terminal empty-string fallback leaves the
// recursive descent with no level to hand an oversized part to, so it must
// be rejected up front like the other config errors.
func TestChunk_SeparatorsMissingFallbackRejected(t *testing.T) {
	cfg := Config{ChunkSize: 5, Overlap: 0, Separators: []string{" "}}
	chunks, err := Chunk("supercalifragilistic word", cfg, StrategyRecursive)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if chunks != nil {
		t.Fatalf("expected no chunks on config error, got %v", chunks)
	}

	ok := Config{ChunkSize: 5, Overlap: 0, Separators: []string{" ", ""}}
	if _, err := Chunk("supercalifragilistic word", ok, StrategyRecursive); err != nil {
		t.Fatalf("separators ending with the fallback should be valid, got %v", err)
	}
}

func TestChunk_UnknownStrategy(t *testing.T) {
	_, err := Chunk("text", DefaultConfig(), Strategy("semantic"))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for unknown strategy, got %v", err)
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t  \n"} {
		for _, strat := range []Strategy{StrategyFixedSize, StrategyRecursive} {
			chunks, err := Chunk(in, DefaultConfig(), strat)
			if err != nil {
				t.Fatalf("input %q strategy=%s: unexpected error %v", in, strat, err)
			}
			if len(chunks) != 0 {
				t.Fatalf("input %q strategy=%s: expected no chunks, got %v", in, strat, chunks)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	in := "Hello\nworld,\n\nthis  is\tshort."
	want := "Hello world, this is short."
	got := Normalize(in)
	if got != want {
		t.Fatalf("Normalize: got %q want %q", got, want)
	}
	if Normalize(got) != got {
		t.Fatalf("Normalize is not idempotent on %q", got)
	}
}

func TestFixedSize_WindowStrideAndTrailingMerge(t *testing.T) {
	cfg := Config{ChunkSize: 10, Overlap: 4}
	chunks, err := Chunk("abcdefghijklmnopqrstuvwxyz", cfg, StrategyFixedSize)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	want := []string{"abcdefghij", "ghijklmnop", "mnopqrstuv", "stuvwxyzyz"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %v", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d: got %q want %q", i, chunks[i], want[i])
		}
	}
}

func TestFixedSize_BoundsHoldForAllValidConfigs(t *testing.T) {
	text := strings.Repeat("abcdefg ", 40)
	for size := 1; size <= 25; size++ {
		for overlap := 0; overlap < size; overlap++ {
			cfg := Config{ChunkSize: size, Overlap: overlap}
			chunks, err := Chunk(text, cfg, StrategyFixedSize)
			if err != nil {
				t.Fatalf("size=%d overlap=%d: %v", size, overlap, err)
			}
			if len(chunks) == 0 {
				t.Fatalf("size=%d overlap=%d: no chunks for non-empty input", size, overlap)
			}
			for i, c := range chunks {
				if n := utf8.RuneCountInString(c); n > size+overlap {
					t.Fatalf("size=%d overlap=%d chunk=%d: length %d exceeds chunk_size+overlap", size, overlap, i, n)
				}
				if c == "" {
					t.Fatalf("size=%d overlap=%d chunk=%d: empty chunk", size, overlap, i)
				}
			}
		}
	}
}

func TestRecursive_ShortTextIsSingleChunk(t *testing.T) {
	cfg := Config{ChunkSize: 100, Overlap: 10, Separators: DefaultConfig().Separators}
	chunks, err := Chunk("Hello\nworld, this is short.", cfg, StrategyRecursive)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "Hello world, this is short." {
		t.Fatalf("expected single normalized chunk, got %v", chunks)
	}
}

func TestRecursive_SplitsAtWordBoundaries(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("alpha beta gamma delta ", 20))
	cfg := Config{ChunkSize: 50, Overlap: 10, Separators: DefaultConfig().Separators}
	chunks, err := Chunk(text, cfg, StrategyRecursive)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// No word is ever cut: the word sequence across chunks must equal the
	// word sequence of the normalized input.
	got := strings.Fields(strings.Join(chunks, " "))
	want := strings.Fields(text)
	if len(got) != len(want) {
		t.Fatalf("word count mismatch: got %d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("word %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestRecursive_OversizedWordFallsBackToFixedSize(t *testing.T) {
	cfg := Config{ChunkSize: 10, Overlap: 2, Separators: DefaultConfig().Separators}
	chunks, err := Chunk(strings.Repeat("x", 25), cfg, StrategyRecursive)
	if err != nil {
		t.Fatalf("chunk: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks from fixed-size fallback, got %d: %v", len(chunks), chunks)
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > cfg.ChunkSize+cfg.Overlap {
			t.Fatalf("chunk %d: length %d exceeds bound", i, n)
		}
	}
}

// Pins the join characters produced when the recursive strategy descends
// through several separator levels: parts merged at a given level must be
// joined with that level's separator, never one leaked from a finer level.
func TestRecursive_MultiLevelJoinCharacters(t *testing.T) {
	text := "aaaa bbbb cccc\nddd\n\neee"
	chunks := recursiveSplit(text, 12, 0, []string{"\n\n", "\n", " ", ""})
	want := []string{"aaaa bbbb", "cccc\nddd\n\neee"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d: got %q want %q", i, chunks[i], want[i])
		}
	}
}
