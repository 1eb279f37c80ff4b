package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/vedran77/roster/internal/domain"
)

type fakeUserRepo struct {
	users   []domain.User
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeUserRepo) LoadAll(ctx context.Context) ([]domain.User, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return append([]domain.User{}, f.users...), nil
}

func (f *fakeUserRepo) SaveAll(ctx context.Context, users []domain.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.users = users
	f.saves++
	return nil
}

func newTestService(repo *fakeUserRepo) *UserService {
	logg := logrus.New()
	logg.SetOutput(io.Discard)
	return NewUserService(repo, logg)
}

func strPtr(s string) *string { return &s }

func TestCreateAssignsUniqueIDs(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateUserInput{Name: "Ann", Username: "ann1", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(ctx, CreateUserInput{Name: "Bob", Username: "bob1", Email: "bob@x.com"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Fatal("expected non-empty ids")
	}
	if first.ID == second.ID {
		t.Errorf("ids collided: %q", first.ID)
	}
}

func TestCreateDefaultsOptionalFields(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestService(repo)

	user, err := svc.Create(context.Background(), CreateUserInput{Name: "Ann", Username: "ann1", Email: "ann@x.com"})
	if err != nil {
		t.Fatal(err)
	}

	if user.Phone != "" || user.Website != "" || user.Company != "" {
		t.Errorf("optional fields not empty: %+v", user)
	}
	if user.Address != (domain.Address{}) {
		t.Errorf("address not empty: %+v", user.Address)
	}
}

func TestCreateConflicts(t *testing.T) {
	tests := []struct {
		name  string
		input CreateUserInput
		want  error
	}{
		{
			name:  "duplicate username",
			input: CreateUserInput{Name: "Bob", Username: "ann1", Email: "bob@x.com"},
			want:  ErrUsernameTaken,
		},
		{
			name:  "duplicate email",
			input: CreateUserInput{Name: "Bob", Username: "bob1", Email: "ann@x.com"},
			want:  ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUserRepo{users: []domain.User{
				{ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com"},
			}}
			svc := newTestService(repo)

			if _, err := svc.Create(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
			if repo.saves != 0 {
				t.Error("conflicting create must not persist")
			}
		})
	}
}

func TestCreateUniquenessIsCaseSensitive(t *testing.T) {
	repo := &fakeUserRepo{users: []domain.User{
		{ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com"},
	}}
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), CreateUserInput{Name: "Bob", Username: "ANN1", Email: "ANN@x.com"}); err != nil {
		t.Errorf("differently-cased username/email should not conflict: %v", err)
	}
}

func TestUpdateMergesAddress(t *testing.T) {
	repo := &fakeUserRepo{users: []domain.User{
		{
			ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com",
			Address: domain.Address{Street: "1 Main St", City: "Springfield", Zipcode: "12345"},
		},
	}}
	svc := newTestService(repo)

	user, err := svc.Update(context.Background(), "1", UpdateUserInput{
		Address: &AddressInput{City: strPtr("Shelbyville")},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	want := domain.Address{Street: "1 Main St", City: "Shelbyville", Zipcode: "12345"}
	if user.Address != want {
		t.Errorf("address = %+v, want %+v", user.Address, want)
	}
}

func TestUpdateRetainsAbsentFields(t *testing.T) {
	repo := &fakeUserRepo{users: []domain.User{
		{ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com", Phone: "555"},
	}}
	svc := newTestService(repo)

	user, err := svc.Update(context.Background(), "1", UpdateUserInput{Name: strPtr("Ann2")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if user.Name != "Ann2" {
		t.Errorf("name = %q, want Ann2", user.Name)
	}
	if user.Username != "ann1" || user.Email != "ann@x.com" || user.Phone != "555" {
		t.Errorf("absent fields changed: %+v", user)
	}
}

func TestUpdateNotFound(t *testing.T) {
	svc := newTestService(&fakeUserRepo{})

	if _, err := svc.Update(context.Background(), "missing", UpdateUserInput{Name: strPtr("X")}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateConflictsExcludeSelf(t *testing.T) {
	repo := &fakeUserRepo{users: []domain.User{
		{ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com"},
		{ID: "2", Name: "Bob", Username: "bob1", Email: "bob@x.com"},
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	// Keeping your own username is not a conflict.
	if _, err := svc.Update(ctx, "1", UpdateUserInput{Username: strPtr("ann1")}); err != nil {
		t.Errorf("self-update conflicted: %v", err)
	}

	// Taking another record's username is.
	if _, err := svc.Update(ctx, "1", UpdateUserInput{Username: strPtr("bob1")}); !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("error = %v, want ErrUsernameTaken", err)
	}
	if _, err := svc.Update(ctx, "1", UpdateUserInput{Email: strPtr("bob@x.com")}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

func TestDelete(t *testing.T) {
	repo := &fakeUserRepo{users: []domain.User{
		{ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com"},
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, "1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrUserNotFound", err)
	}
	if err := svc.Delete(ctx, "1"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second delete = %v, want ErrUserNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	repo := &fakeUserRepo{users: []domain.User{
		{ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com", Address: domain.Address{City: "Springfield"}},
		{ID: "2", Name: "Bob", Username: "bob1", Email: "bob@y.org"},
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	tests := []struct {
		name    string
		q       string
		wantIDs []string
	}{
		{name: "email substring", q: "ann@", wantIDs: []string{"1"}},
		{name: "case insensitive", q: "SPRINGFIELD", wantIDs: []string{"1"}},
		{name: "name substring", q: "bo", wantIDs: []string{"2"}},
		{name: "no match", q: "zzz", wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Search(ctx, tt.q)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			ids := make([]string, 0, len(got))
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("got ids %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("got ids %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestListFilters(t *testing.T) {
	repo := &fakeUserRepo{users: []domain.User{
		{ID: "1", Name: "Ann", Username: "ann1", Email: "ann@x.com", Address: domain.Address{City: "Springfield"}},
		{ID: "2", Name: "Bob", Username: "bob1", Email: "bob@x.com", Address: domain.Address{City: "Shelbyville"}},
	}}
	svc := newTestService(repo)
	ctx := context.Background()

	got, err := svc.List(ctx, map[string]string{"address.city": "spring"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("filtered list = %+v, want user 1", got)
	}

	got, err = svc.List(ctx, map[string]string{"nonsense": "x"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown filter matched %d users, want 0", len(got))
	}

	got, err = svc.List(ctx, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("unfiltered list has %d users, want 2", len(got))
	}
}

func TestLoadErrorsPropagate(t *testing.T) {
	repo := &fakeUserRepo{loadErr: errors.New("disk on fire")}
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.List(ctx, nil); err == nil {
		t.Error("List: expected error")
	}
	if _, err := svc.Create(ctx, CreateUserInput{Name: "Ann", Username: "ann1", Email: "ann@x.com"}); err == nil {
		t.Error("Create: expected error")
	}
	if err := svc.Delete(ctx, "1"); err == nil {
		t.Error("Delete: expected error")
	}
}
