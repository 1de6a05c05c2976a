package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type fakeIdentityRepo struct {
	users []*User
}

func (r *fakeIdentityRepo) CreateUser(ctx context.Context, user *User) error {
	r.users = append(r.users, user)
	return nil
}

func (r *fakeIdentityRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeIdentityRepo) GetUserByID(ctx context.Context, userID string) (*User, error) {
	for _, user := range r.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeIdentityRepo) CountUsersByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.Email == email {
			count++
		}
	}
	return count, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, Config{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	repo := &fakeIdentityRepo{}
	svc := newTestService(repo)

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "Alice@Example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.Role != RoleMember {
		t.Fatalf("expected default role member, got %s", user.Role)
	}
	if user.PasswordHash == "supersecret" {
		t.Fatalf("expected hashed password")
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	ident, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ident.UserID != user.ID || ident.Role != RoleMember {
		t.Fatalf("unexpected identity %+v", ident)
	}

	loggedIn, loginToken, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Fatalf("expected same user, got %s", loggedIn.ID)
	}
	if loginToken == "" {
		t.Fatalf("expected token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &fakeIdentityRepo{}
	svc := newTestService(repo)

	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Also Alice",
		Email:    "ALICE@example.com",
		Password: "supersecret",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected a single user, got %d", len(repo.users))
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(&fakeIdentityRepo{})

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{"empty name", RegisterInput{Name: " ", Email: "a@b.com", Password: "supersecret"}, ErrNameRequired},
		{"bad email", RegisterInput{Name: "Alice", Email: "not-an-email", Password: "supersecret"}, ErrInvalidEmail},
		{"short password", RegisterInput{Name: "Alice", Email: "a@b.com", Password: "short"}, ErrPasswordTooShort},
		{"bad role", RegisterInput{Name: "Alice", Email: "a@b.com", Password: "supersecret", Role: "owner"}, ErrInvalidRole},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &fakeIdentityRepo{}
	svc := newTestService(repo)

	if _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "alice@example.com",
		Password: "wrongpassword",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestService(&fakeIdentityRepo{})

	_, _, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateMalformedToken(t *testing.T) {
	svc := newTestService(&fakeIdentityRepo{})

	if _, err := svc.Authenticate(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	repo := &fakeIdentityRepo{}
	svc := newTestService(repo)
	svc.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }

	_, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateWrongSecret(t *testing.T) {
	repo := &fakeIdentityRepo{}
	svc := newTestService(repo)

	_, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	other := NewService(repo, Config{JWTSecret: "another-secret", BcryptCost: bcrypt.MinCost})
	if _, err := other.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	repo := &fakeIdentityRepo{}
	svc := newTestService(repo)

	_, token, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "supersecret",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	repo.users = nil
	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
