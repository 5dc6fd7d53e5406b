package code

import (
	"math/rand"

	"github.com/okian/pizzarank/internal/domain/dedupe"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithVocabulary replaces the adjective and noun lists. Empty lists are ignored.
func WithVocabulary(adjectives, nouns []string) Option {
	return func(g *Generator) {
		if len(adjectives) > 0 {
			g.adjectives = append([]string(nil), adjectives...)
		}
		if len(nouns) > 0 {
			g.nouns = append([]string(nil), nouns...)
		}
	}
}

// WithSeed makes generation deterministic. Intended for tests.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // codes are not secrets of cryptographic strength
	}
}

// WithKnownChecker makes Issue skip codes that already have records.
func WithKnownChecker(k KnownChecker) Option {
	return func(g *Generator) {
		g.known = k
	}
}

// WithIssued sets the set of codes already handed out by this process.
func WithIssued(d dedupe.Deduper) Option {
	return func(g *Generator) {
		if d != nil {
			g.issued = d
		}
	}
}

// WithMaxAttempts bounds how many candidates Issue tries.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}
