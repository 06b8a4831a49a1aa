package service

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"ctchen222/todo-api/internal/auth"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password; callers cannot tell the two apart.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	issuer   auth.RegistrationIssuer
}

// NewUserService creates a new UserService. When issuer is non-nil every new
// user gets an auth token at registration.
func NewUserService(userRepo repository.UserRepository, issuer auth.RegistrationIssuer) UserService {
	return &userService{userRepo: userRepo, issuer: issuer}
}

// dummyHash is compared against when the username is unknown so a miss costs
// as much as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	return string(hash)
})

// Register handles user registration.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Register")
	defer span.End()

	// Check if user already exists
	_, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err == nil {
		return nil, repository.ErrDuplicateUsername
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if s.issuer != nil {
		token, err := s.issuer.NewRegistrationToken()
		if err != nil {
			return nil, fmt.Errorf("failed to generate auth token: %w", err)
		}
		user.AuthToken = &token
	}

	// The unique index still catches a concurrent registration of the same name.
	if err := s.userRepo.CreateUser(ctx, user, req.Password); err != nil {
		if !errors.Is(err, repository.ErrDuplicateUsername) {
			span.SetStatus(codes.Error, "failed to create user")
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	usersRegistered.Add(ctx, 1)
	return user, nil
}

// Login verifies the credentials and returns the matching user.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserService.Login")
	defer span.End()

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.userRepo.VerifyPassword(&models.User{PasswordHash: dummyHash()}, req.Password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.userRepo.VerifyPassword(user, req.Password) {
		return nil, ErrInvalidCredentials
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	loginsSucceeded.Add(ctx, 1)
	return user, nil
}
