package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"quickslot-api/internal/auth"
	"quickslot-api/internal/domain"
	"quickslot-api/internal/mail"
	"quickslot-api/internal/repository"
	"quickslot-api/internal/reset"
)

var (
	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials indicates the email/password pair is incorrect.
	// Unknown accounts and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive indicates the account exists but is disabled.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrInvalidToken indicates a token that failed decode or carries the wrong type.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMalformedHeader indicates an Authorization header that is not "Bearer <token>".
	ErrMalformedHeader = errors.New("malformed authorization header")
	// ErrUserNotFound indicates a token subject that no longer resolves to an active user.
	ErrUserNotFound = errors.New("user not found")
	// ErrValidation wraps rejected request input.
	ErrValidation = errors.New("validation error")
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	PhoneNumber string
}

// ResetTokenStore persists single-use password reset tokens.
type ResetTokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Consume(ctx context.Context, token string) (string, error)
}

// AuthService orchestrates registration, login, token refresh, and identity
// resolution on top of the password hasher, the token codec, and the user store.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	ResolveIdentity(ctx context.Context, bearer string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
	SetProfileImage(ctx context.Context, userID, url string) error
}

type authService struct {
	users    repository.UserRepository
	hasher   *auth.Hasher
	codec    *auth.TokenCodec
	resets   ResetTokenStore
	mailer   mail.Mailer
	resetTTL time.Duration

	// digest verified against when the email does not resolve, so both
	// halves of a failed login share a latency profile
	dummyDigest string
}

// NewAuthService wires the authentication core. resets and mailer may be nil;
// password reset requests are then acknowledged without a stored token.
func NewAuthService(
	users repository.UserRepository,
	hasher *auth.Hasher,
	codec *auth.TokenCodec,
	resets ResetTokenStore,
	mailer mail.Mailer,
	resetTTL time.Duration,
) AuthService {
	return &authService{
		users:       users,
		hasher:      hasher,
		codec:       codec,
		resets:      resets,
		mailer:      mailer,
		resetTTL:    resetTTL,
		dummyDigest: hasher.Hash(uuid.NewString()),
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, TokenPair, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, TokenPair{}, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, TokenPair{}, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: s.hasher.Hash(input.Password),
		Name:           strings.TrimSpace(input.Name),
		PhoneNumber:    strings.TrimSpace(input.PhoneNumber),
		IsActive:       true,
		LastLoginAt:    &now,
	}

	// the store's uniqueness constraint is authoritative; no pre-check
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, TokenPair{}, ErrDuplicateEmail
		}
		return nil, TokenPair{}, err
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return sanitizeUser(user), pair, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.Verify(password, s.dummyDigest)
			return nil, TokenPair{}, ErrInvalidCredentials
		}
		return nil, TokenPair{}, err
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	// checked only after password verification
	if !user.IsActive {
		return nil, TokenPair{}, ErrAccountInactive
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, TokenPair{}, fmt.Errorf("update last login: %w", err)
	}

	pair, err := s.issuePair(user.ID)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return sanitizeUser(user), pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken)
	if err != nil || claims.TokenType != auth.TokenTypeRefresh {
		return TokenPair{}, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, err
	}
	if !user.IsActive {
		return TokenPair{}, ErrUserNotFound
	}

	// rotation: both tokens are reissued; the old refresh token stays valid
	// until its own expiry
	return s.issuePair(user.ID)
}

func (s *authService) ResolveIdentity(ctx context.Context, bearer string) (*domain.User, error) {
	parts := strings.Split(bearer, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return nil, ErrMalformedHeader
	}

	subject, err := s.codec.SubjectOfAccess(parts[1])
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return sanitizeUser(user), nil
}

// RequestPasswordReset acknowledges every well-formed request identically,
// whether or not the email resolves to an account.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || !user.IsActive || s.resets == nil || s.mailer == nil {
		return nil
	}

	token := uuid.NewString()
	if err := s.resets.Save(ctx, token, user.ID, s.resetTTL); err != nil {
		return nil
	}
	_ = s.mailer.SendPasswordReset(ctx, user.Email, token)
	return nil
}

func (s *authService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if s.resets == nil || token == "" {
		return ErrInvalidToken
	}

	userID, err := s.resets.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, reset.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	user.HashedPassword = s.hasher.Hash(newPassword)
	return s.users.Update(ctx, user)
}

func (s *authService) SetProfileImage(ctx context.Context, userID, url string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	user.ProfileImageURL = url
	return s.users.Update(ctx, user)
}

func (s *authService) issuePair(userID string) (TokenPair, error) {
	access, err := s.codec.IssueAccess(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.codec.IssueRefresh(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.HashedPassword = ""
	return &clean
}
