// Package catalog serves the read-only list of ratable spots.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/pizzarank/internal/domain/model"
)

// Sentinel kinds for catalog construction.
var (
	ErrBlankSpotName     = errors.New("spot name must not be blank")
	ErrDuplicateSpotName = errors.New("duplicate spot name")
)

// Catalog lists spots and resolves them by name.
type Catalog interface {
	List(ctx context.Context) ([]model.Spot, error)
	Get(ctx context.Context, name string) (model.Spot, bool, error)
}

// Static is an immutable catalog held in memory, in configuration order.
type Static struct {
	spots  []model.Spot
	byName map[string]int
}

// Ensure Static implements Catalog.
var _ Catalog = (*Static)(nil)

// NewStatic builds a catalog from spots. Names must be unique and non-blank.
func NewStatic(spots []model.Spot) (*Static, error) {
	c := &Static{
		spots:  make([]model.Spot, 0, len(spots)),
		byName: make(map[string]int, len(spots)),
	}
	for _, s := range spots {
		if strings.TrimSpace(s.Name) == "" {
			return nil, ErrBlankSpotName
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("%q: %w", s.Name, ErrDuplicateSpotName)
		}
		c.byName[s.Name] = len(c.spots)
		c.spots = append(c.spots, s)
	}
	return c, nil
}

// List returns a copy of every spot.
func (c *Static) List(context.Context) ([]model.Spot, error) {
	out := make([]model.Spot, len(c.spots))
	copy(out, c.spots)
	return out, nil
}

// Get looks a spot up by exact name.
func (c *Static) Get(_ context.Context, name string) (model.Spot, bool, error) {
	i, ok := c.byName[name]
	if !ok {
		return model.Spot{}, false, nil
	}
	return c.spots[i], true, nil
}

// Len returns the number of spots.
func (c *Static) Len() int { return len(c.spots) }
