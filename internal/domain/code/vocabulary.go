package code

// Default word lists. Codes are "<adjective>-<noun>".
var (
	defaultAdjectives = []string{ //nolint:gochecknoglobals // fixed vocabulary
		"red", "blue", "fast", "cool", "hot", "big", "tiny", "wild",
		"crispy", "cheesy", "spicy", "saucy", "golden", "smoky", "zesty", "fresh",
		"bold", "lucky", "sunny", "quiet", "brave", "happy", "sleepy", "shiny",
		"salty", "sweet", "tangy", "rustic", "fancy", "mighty", "swift", "witty",
	}
	defaultNouns = []string{ //nolint:gochecknoglobals // fixed vocabulary
		"dog", "cat", "fox", "bear", "wolf", "lion", "hawk", "star",
		"slice", "crust", "oven", "basil", "olive", "pepper", "onion", "garlic",
		"otter", "panda", "tiger", "eagle", "moose", "raven", "shark", "whale",
		"comet", "moon", "river", "stone", "cloud", "maple", "cedar", "spark",
	}
)
