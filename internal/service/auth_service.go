package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/middleware"
	"github.com/splitpot/splitpot/internal/models"
	"github.com/splitpot/splitpot/internal/storage"
)

// AuthService handles account registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
	}
}

// Register creates a new user account and returns it with a session token.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, string, error) {
	slog.Info("Register request", "email", email)

	if email == "" {
		return nil, "", &ErrValidation{Field: "email", Message: "email is required"}
	}
	if name == "" {
		return nil, "", &ErrValidation{Field: "name", Message: "name is required"}
	}

	user, err := s.authenticator.Register(ctx, email, name, password)
	if err != nil {
		slog.Error("Registration failed", "email", email, "error", err)
		return nil, "", err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	slog.Info("Login request", "email", email)

	if email == "" || password == "" {
		return nil, "", auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email, "error", err)
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		slog.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User logged in", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// CurrentUser returns the full record of the authenticated user.
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, auth.ErrMissingToken
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
