package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/examdesk/examdesk-backend/internal/model"
	"github.com/examdesk/examdesk-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Account errors surfaced to handlers.
var (
	ErrUserExists         = errors.New("account already exists")
	ErrRollNumberRequired = errors.New("roll number is required for student accounts")
	ErrEmailRequired      = errors.New("email is required for admin accounts")
)

// UserService handles account registration, login, and management.
type UserService struct {
	users *repository.UserRepository
	auth  *AuthService
	mail  *MailService
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, auth *AuthService, mail *MailService, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		auth:  auth,
		mail:  mail,
		log:   log.With().Str("component", "user_service").Logger(),
	}
}

// Signup registers a new account and returns it with a fresh token.
// Students must carry a roll number, admins an email address.
func (s *UserService) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, string, error) {
	role := model.Role(req.Role)
	switch role {
	case model.RoleStudent:
		if req.RollNumber == "" {
			return nil, "", ErrRollNumberRequired
		}
	case model.RoleAdmin:
		if req.Email == "" {
			return nil, "", ErrEmailRequired
		}
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         req.Name,
		Role:         role,
		RollNumber:   req.RollNumber,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	s.mail.EnqueueCredentials(ctx, user, req.Password)

	s.log.Info().
		Str("user_id", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("Account registered")
	return user, token, nil
}

// Login authenticates by roll number or email and returns the account
// with a fresh token.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, string, error) {
	user, err := s.users.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}
	if err := s.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Get retrieves an account by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile updates the caller's name and email. Empty fields keep
// their current value.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	email := current.Email
	if req.Email != "" {
		email = req.Email
	}

	updated, err := s.users.UpdateProfile(ctx, id, name, email)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return updated, nil
}

// ListStudents retrieves all student accounts.
func (s *UserService) ListStudents(ctx context.Context) ([]model.User, error) {
	return s.users.ListStudents(ctx)
}

// DeleteStudent removes a student account and, through the cascade, the
// student's attempts.
func (s *UserService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if err := s.users.DeleteStudent(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id.String()).Msg("Student account deleted")
	return nil
}
