package auth

import (
	"context"
	"errors"
	"fmt"
)

// UserStore is the persistence surface the orchestrator needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, name, email, passwordHash string, role Role) (*User, error)
}

// Service composes store, hasher, and token service into the two auth
// transactions. It returns sentinel errors for domain outcomes and wrapped
// errors for infrastructure failures; callers dispatch with errors.Is.
type Service struct {
	store  UserStore
	hasher *Hasher
	tokens *TokenService
}

func NewService(store UserStore, hasher *Hasher, tokens *TokenService) *Service {
	return &Service{store: store, hasher: hasher, tokens: tokens}
}

// Register creates a user and mints a session token for it. The insert is the
// only durable effect and happens after all validation, so there is nothing
// to roll back on failure.
func (s *Service) Register(ctx context.Context, name, email, password string, role Role) (*User, string, error) {
	email = NormalizeEmail(email)
	if role == "" {
		role = RoleUser
	}

	_, err := s.store.FindByEmail(ctx, email)
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, "", fmt.Errorf("check existing user: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	// Insert may still hit the unique index if an identical registration
	// raced past the check above; the store reports that as ErrEmailTaken.
	user, err := s.store.Insert(ctx, name, email, hash, role)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate verifies credentials and mints a session token. Unknown email
// and wrong password both come back as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, string, error) {
	user, err := s.store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}
