package code

import "errors"

// ErrEmptyVocabulary is returned when a generator has no words to pick from.
var ErrEmptyVocabulary = errors.New("code vocabulary is empty")
