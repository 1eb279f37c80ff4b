package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vedran77/roster/internal/domain"
	"github.com/vedran77/roster/internal/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already taken")
	ErrUsernameTaken = errors.New("username already taken")
)

type UserService struct {
	userRepo repository.UserRepository
	logger   *logrus.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

type AddressInput struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	Zipcode *string `json:"zipcode"`
}

type CreateUserInput struct {
	Name     string        `json:"name"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
	Phone    string        `json:"phone"`
	Website  string        `json:"website"`
	Company  string        `json:"company"`
	Address  *AddressInput `json:"address"`
}

type UpdateUserInput struct {
	Name     *string       `json:"name"`
	Username *string       `json:"username"`
	Email    *string       `json:"email"`
	Phone    *string       `json:"phone"`
	Website  *string       `json:"website"`
	Company  *string       `json:"company"`
	Address  *AddressInput `json:"address"`
}

// List returns the collection, narrowed by field-name filters when any are
// given. Filter values match as case-insensitive substrings; a filter on an
// unknown field matches nothing.
func (s *UserService) List(ctx context.Context, filters map[string]string) ([]domain.User, error) {
	users, err := s.userRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(filters) == 0 {
		return users, nil
	}

	matched := make([]domain.User, 0, len(users))
	for _, u := range users {
		if matchesFilters(u, filters) {
			matched = append(matched, u)
		}
	}
	return matched, nil
}

// Search returns users whose name, username, email or any address subfield
// contains q, case-insensitively.
func (s *UserService) Search(ctx context.Context, q string) ([]domain.User, error) {
	users, err := s.userRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	q = strings.ToLower(q)
	matched := make([]domain.User, 0, len(users))
	for _, u := range users {
		haystack := []string{
			u.Name, u.Username, u.Email,
			u.Address.Street, u.Address.City, u.Address.Zipcode,
		}
		for _, field := range haystack {
			if strings.Contains(strings.ToLower(field), q) {
				matched = append(matched, u)
				break
			}
		}
	}
	return matched, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	users, err := s.userRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	users, err := s.userRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username == input.Username {
			return nil, ErrUsernameTaken
		}
		if u.Email == input.Email {
			return nil, ErrEmailTaken
		}
	}

	user := domain.User{
		ID:       nextID(users),
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Phone:    input.Phone,
		Website:  input.Website,
		Company:  input.Company,
	}
	applyAddress(&user.Address, input.Address)

	users = append(users, user)
	if err := s.userRepo.SaveAll(ctx, users); err != nil {
		return nil, fmt.Errorf("saving users: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"id": user.ID, "username": user.Username}).Info("user created")
	return &user, nil
}

func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	users, err := s.userRepo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	// Uniqueness is re-checked against every other record.
	for i, u := range users {
		if i == idx {
			continue
		}
		if input.Username != nil && u.Username == *input.Username {
			return nil, ErrUsernameTaken
		}
		if input.Email != nil && u.Email == *input.Email {
			return nil, ErrEmailTaken
		}
	}

	user := users[idx]
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Website != nil {
		user.Website = *input.Website
	}
	if input.Company != nil {
		user.Company = *input.Company
	}
	applyAddress(&user.Address, input.Address)

	users[idx] = user
	if err := s.userRepo.SaveAll(ctx, users); err != nil {
		return nil, fmt.Errorf("saving users: %w", err)
	}

	s.logger.WithField("id", user.ID).Info("user updated")
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	users, err := s.userRepo.LoadAll(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == id {
			users = append(users[:i], users[i+1:]...)
			if err := s.userRepo.SaveAll(ctx, users); err != nil {
				return fmt.Errorf("saving users: %w", err)
			}
			s.logger.WithField("id", id).Info("user deleted")
			return nil
		}
	}
	return ErrUserNotFound
}

// nextID returns the current Unix milliseconds as a string, bumped past the
// largest numeric id already present so ids stay unique and increasing even
// when two creates land in the same millisecond.
func nextID(users []domain.User) string {
	id := time.Now().UnixMilli()
	for _, u := range users {
		if n, err := strconv.ParseInt(u.ID, 10, 64); err == nil && n >= id {
			id = n + 1
		}
	}
	return strconv.FormatInt(id, 10)
}

// applyAddress merges supplied address keys over dst; keys not supplied keep
// their existing values.
func applyAddress(dst *domain.Address, input *AddressInput) {
	if input == nil {
		return
	}
	if input.Street != nil {
		dst.Street = *input.Street
	}
	if input.City != nil {
		dst.City = *input.City
	}
	if input.Zipcode != nil {
		dst.Zipcode = *input.Zipcode
	}
}

func matchesFilters(u domain.User, filters map[string]string) bool {
	for field, want := range filters {
		value, ok := fieldValue(u, field)
		if !ok {
			return false
		}
		if !strings.Contains(strings.ToLower(value), strings.ToLower(want)) {
			return false
		}
	}
	return true
}

func fieldValue(u domain.User, field string) (string, bool) {
	switch field {
	case "id":
		return u.ID, true
	case "name":
		return u.Name, true
	case "username":
		return u.Username, true
	case "email":
		return u.Email, true
	case "phone":
		return u.Phone, true
	case "website":
		return u.Website, true
	case "company":
		return u.Company, true
	case "address.street":
		return u.Address.Street, true
	case "address.city":
		return u.Address.City, true
	case "address.zipcode":
		return u.Address.Zipcode, true
	}
	return "", false
}
