// Package chunking splits normalized document text into retrievable units.
package chunking

import (
	"errors"
	"fmt"
	"strings"
)

type Strategy string

const (
	StrategyFixedSize Strategy = "fixed_size"
	StrategyRecursive Strategy = "recursive_character"
)

// ErrInvalidConfig is returned for chunking parameters that can never
// produce a valid split. It is reported before any text is processed.
var ErrInvalidConfig = errors.New("invalid chunking config")

// Config controls chunk sizing. Sizes are in characters (runes), not bytes.
type Config struct {
	ChunkSize int
	Overlap   int

	// Separators are tried most-coarse first. The trailing empty string is
	// the match-everything fallback and must stay last.
	Separators []string
}

func DefaultConfig() Config {
	return Config{
		ChunkSize:  1000,
		Overlap:    200,
		Separators: []string{"\n\n", "\n", " ", ""},
	}
}

func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalidConfig, c.ChunkSize)
	}
	if c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return fmt.Errorf("%w: overlap must be in [0, chunk_size), got %d", ErrInvalidConfig, c.Overlap)
	}
	if n := len(c.Separators); n > 0 && c.Separators[n-1] != "" {
		return fmt.Errorf("%w: separators must end with the empty-string fallback", ErrInvalidConfig)
	}
	return nil
}

// Normalize collapses line breaks and repeated whitespace into single
// spaces. Upstream text extraction regularly emits one-word-per-line
// output; normalizing first keeps both strategies off that pathology.
// Idempotent and order-preserving.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Chunk validates cfg, normalizes text and splits it with the requested
// strategy. Empty input yields an empty slice, not an error.
func Chunk(text string, cfg Config, strategy Strategy) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	text = Normalize(text)
	if text == "" {
		return nil, nil
	}

	switch strategy {
	case StrategyFixedSize:
		return fixedSize(text, cfg.ChunkSize, cfg.Overlap), nil
	case StrategyRecursive:
		seps := cfg.Separators
		if len(seps) == 0 {
			seps = DefaultConfig().Separators
		}
		return recursiveSplit(text, cfg.ChunkSize, cfg.Overlap, seps), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, strategy)
	}
}
