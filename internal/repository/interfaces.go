package repository

import (
	"context"

	"github.com/vedran77/roster/internal/domain"
)

// UserRepository persists the user collection as a whole. There is no
// per-record access: callers read the full collection, mutate it in memory
// and write it back.
type UserRepository interface {
	LoadAll(ctx context.Context) ([]domain.User, error)
	SaveAll(ctx context.Context, users []domain.User) error
}
