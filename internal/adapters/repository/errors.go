package repository

import (
	"errors"
	"fmt"

	"github.com/okian/pizzarank/internal/domain/model"
)

// Sentinel kinds for repository setup errors.
var (
	ErrUnknownDriver = errors.New("unknown store driver")
	ErrMissingDSN    = errors.New("store dsn is required")
)

// unavailable wraps a driver failure so callers can match model.ErrStoreUnavailable.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
}
