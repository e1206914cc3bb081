package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-manager/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-manager/pkg/mailer"
)

var (
	// ErrInvalidCredentials is returned for both an unknown email and a wrong password.
	ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")
	ErrEmailTaken         = apperror.Conflict("User with this email already exists")
)

// AuthResult is the shared response shape of sign-up and sign-in.
type AuthResult struct {
	AccessToken string            `json:"access_token"`
	User        entity.PublicUser `json:"user"`
}

// WelcomeMail controls the optional welcome email sent after sign-up.
type WelcomeMail struct {
	Enabled bool
	AppName string
}

type AuthService struct {
	Users   repo.UserRepository
	Hasher  PasswordHasher
	Tokens  TokenIssuer
	Events  EventPublisher
	Welcome WelcomeMail
	Logger  *logrus.Logger
}

func NewAuthService(users repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, events EventPublisher, welcome WelcomeMail, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:   users,
		Hasher:  hasher,
		Tokens:  tokens,
		Events:  events,
		Welcome: welcome,
		Logger:  logger,
	}
}

// SignUp registers a user and returns a token for it.
// The pre-check gives a friendly error; the store's unique index on email is the real guard,
// and a duplicate reported by the insert maps to the same Conflict.
func (s *AuthService) SignUp(ctx context.Context, email, password, name string) (*AuthResult, error) {
	existing, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return nil, apperror.Internal(fmt.Errorf("lookup user by email: %w", err))
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	u := &entity.User{Email: email, PasswordHash: hash, Name: name}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, apperror.Internal(fmt.Errorf("create user: %w", err))
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.sendWelcome(ctx, u)
	return res, nil
}

// SignIn checks credentials. Both failure paths return ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal(fmt.Errorf("lookup user by email: %w", err))
	}
	if u == nil || !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

// ResolveIdentity returns the public view of the user with id, or nil if there is none.
// Only storage faults are returned as errors.
func (s *AuthService) ResolveIdentity(ctx context.Context, userID string) (*entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user by id: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	pub := u.Public()
	return &pub, nil
}

func (s *AuthService) issue(u *entity.User) (*AuthResult, error) {
	token, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, apperror.Internal(fmt.Errorf("issue token: %w", err))
	}
	return &AuthResult{AccessToken: token, User: u.Public()}, nil
}

// sendWelcome enqueues the welcome email. Failures are logged and never fail sign-up.
func (s *AuthService) sendWelcome(ctx context.Context, u *entity.User) {
	if !s.Welcome.Enabled || s.Events == nil {
		return
	}
	job := mailer.NewWelcomeJob(u.Email, u.Name, s.Welcome.AppName)
	if err := s.Events.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email")
	}
}
