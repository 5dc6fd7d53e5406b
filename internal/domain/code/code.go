// Package code generates human-memorable identity codes and validates codes
// presented for linking a device to an existing identity.
package code

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/okian/pizzarank/internal/domain/dedupe"
	"github.com/okian/pizzarank/internal/domain/model"
)

const (
	// Separator joins the two words of a code.
	Separator          = "-"
	defaultMaxAttempts = 16
)

// KnownChecker reports whether a code has at least one record in the
// identity or rating store.
type KnownChecker interface {
	IsKnown(ctx context.Context, code string) (bool, error)
}

// Generator produces "<adjective>-<noun>" codes.
type Generator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	adjectives  []string
	nouns       []string
	known       KnownChecker
	issued      dedupe.Deduper
	maxAttempts int
}

// NewGenerator creates a generator with the default vocabulary.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		adjectives:  defaultAdjectives,
		nouns:       defaultNouns,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // see WithSeed
	}
	if g.issued == nil {
		g.issued = dedupe.NewInMemoryDeduper()
	}
	return g
}

// Space returns the number of distinct codes the vocabulary can express.
func (g *Generator) Space() int {
	return len(g.adjectives) * len(g.nouns)
}

// Generate picks one adjective and one noun uniformly at random.
// The value is random; the format is always word-word in lower case.
func (g *Generator) Generate() string {
	g.mu.Lock()
	adj := g.adjectives[g.rng.Intn(len(g.adjectives))]
	noun := g.nouns[g.rng.Intn(len(g.nouns))]
	g.mu.Unlock()
	return strings.ToLower(adj + Separator + noun)
}

// Issue returns a fresh code that this process has not handed out before and
// that has no records in the store. It gives up after the configured number
// of attempts with model.ErrCodeSpaceExhausted.
func (g *Generator) Issue(ctx context.Context) (string, int, error) {
	if g.Space() == 0 {
		return "", 0, ErrEmptyVocabulary
	}
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", attempt, err
		}
		candidate := g.Generate()
		if g.issued.SeenAndRecord(ctx, candidate) {
			continue
		}
		if g.known == nil {
			return candidate, attempt, nil
		}
		known, err := g.known.IsKnown(ctx, candidate)
		if err != nil {
			g.issued.Unrecord(ctx, candidate)
			return "", attempt, err
		}
		if !known {
			return candidate, attempt, nil
		}
	}
	return "", g.maxAttempts, fmt.Errorf("no unused code after %d attempts: %w", g.maxAttempts, model.ErrCodeSpaceExhausted)
}

// Validate reports whether candidate is a known code.
//
// An empty or whitespace-only candidate fails with model.ErrInvalidInput and a
// candidate equal to the caller's own code fails with model.ErrNoOpCode. In
// both cases the store is not consulted.
func Validate(ctx context.Context, session model.Session, candidate string, known KnownChecker) (bool, error) {
	if strings.TrimSpace(candidate) == "" {
		return false, fmt.Errorf("empty code: %w", model.ErrInvalidInput)
	}
	if candidate == session.Code {
		return false, model.ErrNoOpCode
	}
	return known.IsKnown(ctx, candidate)
}
