package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type Service struct {
	repo       Repository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewService(repo Repository, cfg Config) *Service {
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	bcryptCost := cfg.BcryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		repo:       repo,
		secret:     []byte(cfg.JWTSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", ErrNameRequired
	}

	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", err
	}

	if len(input.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}

	role, err := ParseRole(input.Role)
	if err != nil {
		return nil, "", err
	}

	count, err := s.repo.CountUsersByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*User, string, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, "", err
	}
	if input.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Authenticate resolves a bearer token to an identity. The role comes from
// the current user row, not the token, so a role change takes effect without
// reissuing tokens.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (Identity, error) {
	userID, err := s.parseToken(tokenString)
	if err != nil {
		return Identity{}, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Identity{}, ErrInvalidToken
		}
		return Identity{}, err
	}

	return Identity{UserID: user.ID, Role: user.Role}, nil
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(value))
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return "", ErrInvalidEmail
	}
	return email, nil
}
