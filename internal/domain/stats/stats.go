// Package stats derives a personal summary from one identity's ratings.
package stats

import (
	"fmt"

	"github.com/okian/pizzarank/internal/domain/model"
	"github.com/okian/pizzarank/internal/domain/scoring"
)

// PlaceholderName is shown when an identity has not set a display name.
const PlaceholderName = "Click to Edit Name"

// Compute returns nil when ratings is empty. Averages are rounded to one
// decimal; the title is chosen from the rounded averages.
func Compute(displayName string, ratings []model.Rating) *model.UserStats {
	if len(ratings) == 0 {
		return nil
	}
	if displayName == "" {
		displayName = PlaceholderName
	}

	var sum model.Scores
	for _, r := range ratings {
		sum.Crust += r.Crust
		sum.Sauce += r.Sauce
		sum.Cheese += r.Cheese
		sum.Flavor += r.Flavor
	}
	n := float64(len(ratings))
	avg := model.Scores{
		Crust:  scoring.Round1(sum.Crust / n),
		Sauce:  scoring.Round1(sum.Sauce / n),
		Cheese: scoring.Round1(sum.Cheese / n),
		Flavor: scoring.Round1(sum.Flavor / n),
	}

	title := Title(avg)
	return &model.UserStats{
		DisplayName:     displayName,
		TotalSpotsRated: len(ratings),
		AverageCrust:    avg.Crust,
		AverageSauce:    avg.Sauce,
		AverageCheese:   avg.Cheese,
		AverageFlavor:   avg.Flavor,
		FavoriteSpot:    Favorite(ratings),
		TitleCategory:   string(title.Category),
		Title:           title.Label,
		Headline:        fmt.Sprintf("%s is a %s!", displayName, title.Label),
	}
}

// Favorite returns the spot of the rating with the greatest field sum.
// Equal sums keep the earlier rating.
func Favorite(ratings []model.Rating) string {
	favorite := ""
	best := 0.0
	for i, r := range ratings {
		if total := r.Sum(); i == 0 || total > best {
			best = total
			favorite = r.SpotName
		}
	}
	return favorite
}

// Title walks the categories in priority order and returns the first one
// whose average equals the maximum. Flavor, being last, is the fallback.
func Title(avg model.Scores) scoring.Definition {
	maxAvg := 0.0
	for i, d := range scoring.Categories {
		if v := d.Value(avg); i == 0 || v > maxAvg {
			maxAvg = v
		}
	}
	for _, d := range scoring.Categories {
		if d.Value(avg) == maxAvg {
			return d
		}
	}
	return scoring.Categories[len(scoring.Categories)-1]
}
