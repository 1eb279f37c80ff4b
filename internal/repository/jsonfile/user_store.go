package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/vedran77/roster/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// UserStore keeps the whole user collection in a single JSON array on disk.
// No cache, no index, no locking: every call re-reads or rewrites the file.
type UserStore struct {
	path string
}

func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

func (s *UserStore) LoadAll(ctx context.Context) ([]domain.User, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := s.reset(); err != nil {
			return nil, err
		}
		return []domain.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		if err := s.reset(); err != nil {
			return nil, err
		}
		return []domain.User{}, nil
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		// Unparseable content is treated as an empty collection and the
		// file is reinitialized.
		if err := s.reset(); err != nil {
			return nil, err
		}
		return []domain.User{}, nil
	}

	return users, nil
}

func (s *UserStore) SaveAll(ctx context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding users: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	return nil
}

func (s *UserStore) reset() error {
	if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("initializing %s: %w", s.path, err)
	}
	return nil
}
