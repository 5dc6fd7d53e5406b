// Package model contains domain models passed between layers.
package model

// Spot is a ratable location owned by the catalog.
type Spot struct {
	Name        string `json:"name" koanf:"name"`
	Address     string `json:"address" koanf:"address"`
	Description string `json:"description" koanf:"description"`
}

// Scores holds the four rating categories, each in [0, 10].
type Scores struct {
	Crust  float64 `json:"crust"`
	Sauce  float64 `json:"sauce"`
	Cheese float64 `json:"cheese"`
	Flavor float64 `json:"flavor"`
}

// Sum returns the combined value of all four categories.
func (s Scores) Sum() float64 {
	return s.Crust + s.Sauce + s.Cheese + s.Flavor
}

// Rating is one identity's latest submission for one spot.
// At most one Rating exists per (Code, SpotName).
type Rating struct {
	Code     string `json:"code"`
	SpotName string `json:"spot_name"`
	Scores
	Notes string `json:"notes"`
}

// Identity maps a code to an optional display name.
type Identity struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
}

// Session carries the caller's identity code into every operation.
// It replaces any process-wide notion of "current user".
type Session struct {
	Code string
}

// Empty reports whether the session has no code attached.
func (s Session) Empty() bool { return s.Code == "" }
