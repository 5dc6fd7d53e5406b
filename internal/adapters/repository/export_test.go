package repository

import "context"

// Truncate empties a SQL store between test runs.
func Truncate(s Store) error {
	sqlStore, ok := s.(*SQLStore)
	if !ok {
		return nil
	}
	_, err := sqlStore.db.ExecContext(context.Background(), `DELETE FROM ratings; DELETE FROM identities;`)
	return err
}
