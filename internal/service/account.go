package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taskpad/taskpad/internal/auth"
	"github.com/taskpad/taskpad/internal/metrics"
	"github.com/taskpad/taskpad/internal/model"
	"github.com/taskpad/taskpad/internal/repository"
)

// Account service errors.
var (
	ErrEmailRequired      = errors.New("email must not be empty")
	ErrEmailInvalid       = errors.New("email is not a valid address")
	ErrPasswordRequired   = errors.New("password must not be empty")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// TokenRevoker is the denylist the account service writes on logout.
// Implemented by cache.Cache.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AccountService handles registration, login and logout.
// Tokens are stateless; logout works by denylisting the token ID until the
// token would have expired anyway.
type AccountService struct {
	repo        *repository.Repository
	tokens      *auth.Tokens
	revocations TokenRevoker
	metrics     metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(repo *repository.Repository, tokens *auth.Tokens, revocations TokenRevoker, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		repo:        repo,
		tokens:      tokens,
		revocations: revocations,
		metrics:     recorder,
	}
}

// RegisterInput defines input for registration.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a new account with a freshly generated identity.
// The plaintext password is hashed before anything touches the store.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		Name:         strings.TrimSpace(input.Name),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return user, nil
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	AccessToken string
	UserID      string
	ExpiresIn   time.Duration
}

// Login verifies the credentials and issues a bearer token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLoginFailure()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLoginFailure()
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.IncLoginSuccess()

	return &LoginResult{
		AccessToken: token,
		UserID:      user.ID,
		ExpiresIn:   s.tokens.TTL(),
	}, nil
}

// Logout denylists the presented token until its natural expiry.
// Requests carrying the token fail authentication from this point on.
func (s *AccountService) Logout(ctx context.Context, identity *model.Identity) error {
	ttl := time.Until(identity.ExpiresAt)
	if err := s.revocations.RevokeToken(ctx, identity.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.metrics.IncTokenRevoked()

	return nil
}

// GetUser returns the account for a verified identity.
func (s *AccountService) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return ErrEmailInvalid
	}
	return nil
}
