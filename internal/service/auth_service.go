package service

import (
	"context"
	"fmt"
	"log"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/utils"
)

// AuthService provides registration, login and profile services for end users
type AuthService interface {
	Register(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error)
	Login(ctx context.Context, identification, password string) (*model.Account, string, error)
	GetProfile(ctx context.Context, userID int64) (*model.Account, error)
	UpdateProfile(ctx context.Context, userID int64, req model.UpdateAccountRequest) (*model.Account, error)
}

type authService struct {
	store   repository.Store
	jwtUtil *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(store repository.Store, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		store:   store,
		jwtUtil: jwtUtil,
	}
}

// Register creates a new user account
func (s *authService) Register(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	user, err := createAccount(ctx, s.store, usersTable, req, MsgUserExists)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: User %s registered with ID %d", user.Identification, user.ID)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *authService) Login(ctx context.Context, identification, password string) (*model.Account, string, error) {
	user, err := authenticate(ctx, s.store.Users(), identification, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID, model.RoleUser)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *authService) GetProfile(ctx context.Context, userID int64) (*model.Account, error) {
	return findAccount(ctx, s.store.Users(), userID)
}

// UpdateProfile changes the caller's own account. A password change needs the
// current password.
func (s *authService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateAccountRequest) (*model.Account, error) {
	return updateAccount(ctx, s.store, usersTable, userID, req, true, MsgIdentificationInUse)
}
