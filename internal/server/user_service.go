package server

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/oneclickresume/internal/config"
	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/types"
)

// UserService provides business logic for user authentication operations
type UserService struct {
	db             UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             store,
		passwordConfig: passwordConfig,
	}
}

// Register creates an account with a hashed password.
func (s *UserService) Register(ctx context.Context, req *types.SignUpRequest) (*types.User, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, types.NewCollaboratorError("database", "could not create the account", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, config.ErrPasswordLength) {
			return nil, &ErrValidation{Field: "Password", Message: err.Error()}
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, req.Name, req.Email, passwordHash)
	if err != nil {
		// Lost a race with another registration for the same address.
		if errors.Is(err, db.ErrEmailTaken) {
			return nil, &ErrEmailAlreadyExists{Email: req.Email}
		}
		return nil, types.NewCollaboratorError("database", "could not create the account", err)
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, types.NewCollaboratorError("database", "could not load the account", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return dbUser.Public(), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.SignInRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, types.NewCollaboratorError("database", "could not sign in", err)
	}

	// Unknown email and wrong password look the same to the caller.
	if dbUser == nil || !dbUser.PasswordSet {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if s.passwordConfig.NeedsRehash(dbUser.PasswordHash) {
		s.rehash(ctx, dbUser.ID, req.Password)
	}

	return dbUser.Public(), nil
}

// rehash upgrades a stored hash to the configured cost. Failures only cost
// another rehash at the next sign-in.
func (s *UserService) rehash(ctx context.Context, userID uuid.UUID, password string) {
	hash, err := s.passwordConfig.HashPassword(password)
	if err == nil {
		err = s.db.UpdatePassword(ctx, userID, hash)
	}
	if err != nil {
		log.Printf("[auth] Warning: failed to rehash password for %s: %v", userID, err)
	}
}

// UpdatePassword updates a user's password
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return types.NewCollaboratorError("database", "could not load the account", err)
	}
	if dbUser == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if !s.passwordConfig.VerifyPassword(currentPassword, dbUser.PasswordHash) {
		return &ErrPasswordMismatch{}
	}

	newPasswordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		if errors.Is(err, config.ErrPasswordLength) {
			return &ErrValidation{Field: "NewPassword", Message: err.Error()}
		}
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.db.UpdatePassword(ctx, userID, newPasswordHash); err != nil {
		return types.NewCollaboratorError("database", "could not update the password", err)
	}

	return nil
}
