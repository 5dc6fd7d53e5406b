// Package scoring defines the rating categories, their valid range and the
// 0.1 granularity shared by submission, aggregation and stats.
package scoring

import (
	"fmt"
	"math"

	"github.com/okian/pizzarank/internal/domain/model"
)

// Rating scale bounds.
const (
	MinScore = 0.0
	MaxScore = 10.0
	// stepsPerUnit is the inverse of the 0.1 rating step.
	stepsPerUnit = 10
)

// Category identifies one rating dimension.
type Category string

// Rating categories.
const (
	Crust  Category = "crust"
	Sauce  Category = "sauce"
	Cheese Category = "cheese"
	Flavor Category = "flavor"
)

// Definition binds a category to its title label and field accessor.
type Definition struct {
	Category Category
	Label    string
	Value    func(model.Scores) float64
}

// Categories lists every category in fixed priority order. Any tie between
// categories is resolved in favor of the earlier entry.
var Categories = []Definition{ //nolint:gochecknoglobals // fixed priority table
	{Category: Crust, Label: "Crust Connoisseur", Value: func(s model.Scores) float64 { return s.Crust }},
	{Category: Sauce, Label: "Sauce Boss", Value: func(s model.Scores) float64 { return s.Sauce }},
	{Category: Cheese, Label: "Cheese Freak", Value: func(s model.Scores) float64 { return s.Cheese }},
	{Category: Flavor, Label: "Flavor Fanatic", Value: func(s model.Scores) float64 { return s.Flavor }},
}

// Lookup returns the definition for c.
func Lookup(c Category) (Definition, bool) {
	for _, d := range Categories {
		if d.Category == c {
			return d, true
		}
	}
	return Definition{}, false
}

// Validate checks that every category is a finite number within
// [MinScore, MaxScore]. The returned error wraps model.ErrOutOfRange.
func Validate(s model.Scores) error {
	for _, d := range Categories {
		v := d.Value(s)
		if math.IsNaN(v) || math.IsInf(v, 0) || v < MinScore || v > MaxScore {
			return fmt.Errorf("%s=%v must be within [%v, %v]: %w", d.Category, v, MinScore, MaxScore, model.ErrOutOfRange)
		}
	}
	return nil
}

// Round1 rounds x half away from zero to one decimal place.
func Round1(x float64) float64 {
	return math.Round(x*stepsPerUnit) / stepsPerUnit
}

// Normalize snaps every category onto the 0.1 step.
func Normalize(s model.Scores) model.Scores {
	return model.Scores{
		Crust:  Round1(s.Crust),
		Sauce:  Round1(s.Sauce),
		Cheese: Round1(s.Cheese),
		Flavor: Round1(s.Flavor),
	}
}
