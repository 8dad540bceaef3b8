package bootstrap

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Seeder loads reference data into the database after migrations run.
type Seeder interface {
	Seed(ctx context.Context, db *sqlx.DB) error
}

// SeederFunc adapts a bare function to the Seeder interface.
type SeederFunc func(ctx context.Context, db *sqlx.DB) error

// Seed executes the underlying function.
func (f SeederFunc) Seed(ctx context.Context, db *sqlx.DB) error {
	return f(ctx, db)
}

// RunSeeders executes seeders in order, stopping at the first failure.
func RunSeeders(ctx context.Context, db *sqlx.DB, seeders []Seeder) error {
	for _, s := range seeders {
		if s == nil {
			continue
		}
		if err := s.Seed(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
