package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bagiswari/finance-tracker/internal/auth"
	"github.com/Bagiswari/finance-tracker/internal/core"
	"github.com/Bagiswari/finance-tracker/internal/storage"
)

// AuthService registers users and exchanges credentials for tokens.
type AuthService struct {
	storage *storage.SQLiteRepository
	tokens  *auth.TokenIssuer
}

func NewAuthService(storage *storage.SQLiteRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{storage: storage, tokens: tokens}
}

// Register creates a user and returns them with a fresh token.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (core.User, string, error) {
	if _, err := s.storage.FindUserByEmail(ctx, email); err == nil {
		return core.User{}, "", core.ErrEmailTaken
	} else if !errors.Is(err, core.ErrNotFound) {
		return core.User{}, "", fmt.Errorf("look up user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return core.User{}, "", err
	}

	user, err := s.storage.CreateUser(ctx, email, hash, fullName)
	if err != nil {
		return core.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return core.User{}, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh token.
// Wrong email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	user, err := s.storage.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, "", core.ErrInvalidLogin
		}
		return core.User{}, "", fmt.Errorf("look up user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return core.User{}, "", core.ErrInvalidLogin
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return core.User{}, "", err
	}
	return user, token, nil
}

// Profile returns the user for an authenticated id.
func (s *AuthService) Profile(ctx context.Context, userID int64) (core.User, error) {
	return s.storage.FindUserByID(ctx, userID)
}
