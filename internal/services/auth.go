package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/worldcup-api/apiserver/internal/auth"
	"github.com/worldcup-api/apiserver/internal/metrics"
	"github.com/worldcup-api/apiserver/internal/store"
	"github.com/worldcup-api/apiserver/types"
)

const (
	opRegister = "register"
	opLogin    = "login"
	opRefresh  = "refresh"
)

// CredentialStore defines persistence operations the auth flows need.
type CredentialStore interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdateRefreshToken(ctx context.Context, id int, refreshToken string) error
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// TokenIssuer mints and checks bearer tokens.
type TokenIssuer interface {
	SignAccess(payload auth.TokenPayload) (string, error)
	SignRefresh(payload auth.TokenPayload) (string, error)
	VerifyRefresh(token string) (auth.TokenPayload, error)
}

// AuthService implements registration, login and access token renewal.
//
// Each user has at most one live refresh token, stored on the user row.
// Login overwrites it, so a login elsewhere revokes older refresh tokens.
// Concurrent logins are not coordinated: the last write wins.
type AuthService struct {
	users   CredentialStore
	hasher  PasswordHasher
	tokens  TokenIssuer
	events  *EventEmitter
	metrics *metrics.AuthMetrics
	logger  *slog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithEvents makes the service publish audit events through emitter.
func WithEvents(emitter *EventEmitter) AuthOption {
	return func(s *AuthService) { s.events = emitter }
}

// WithAuthMetrics records operation outcomes on m.
func WithAuthMetrics(m *metrics.AuthMetrics) AuthOption {
	return func(s *AuthService) { s.metrics = m }
}

// WithAuthLogger sets the service logger.
func WithAuthLogger(logger *slog.Logger) AuthOption {
	return func(s *AuthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewAuthService(users CredentialStore, hasher PasswordHasher, tokens TokenIssuer, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns its first token pair.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (types.AuthResponse, error) {
	resp, err := s.register(ctx, email, password, name)
	s.observe(opRegister, err, auth.ErrDuplicateUser)
	return resp, err
}

func (s *AuthService) register(ctx context.Context, email, password, name string) (types.AuthResponse, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return types.AuthResponse{}, auth.ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.AuthResponse{}, fmt.Errorf("check user: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return types.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		PasswordHash: digest,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.AuthResponse{}, auth.ErrDuplicateUser
		}
		return types.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}

	resp, err := s.issueSession(ctx, user)
	if err != nil {
		return types.AuthResponse{}, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	s.events.Emit(ctx, EventUserRegistered, user)
	return resp, nil
}

// Login checks the credentials and issues a fresh token pair, replacing the
// stored refresh token. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (types.AuthResponse, error) {
	resp, err := s.login(ctx, email, password)
	s.observe(opLogin, err, auth.ErrInvalidCredentials)
	return resp, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (types.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.AuthResponse{}, auth.ErrInvalidCredentials
		}
		return types.AuthResponse{}, fmt.Errorf("load user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.ErrorContext(ctx, "stored password digest is unreadable", "user_id", user.ID, "error", err)
		return types.AuthResponse{}, auth.ErrInvalidCredentials
	}
	if !ok {
		return types.AuthResponse{}, auth.ErrInvalidCredentials
	}

	resp, err := s.issueSession(ctx, user)
	if err != nil {
		return types.AuthResponse{}, err
	}

	s.events.Emit(ctx, EventUserLoggedIn, user)
	return resp, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token. The
// refresh token must still be the one stored for its user. It is not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (types.AccessTokenResponse, error) {
	resp, err := s.refresh(ctx, refreshToken)
	s.observe(opRefresh, err, auth.ErrInvalidRefreshToken)
	return resp, err
}

func (s *AuthService) refresh(ctx context.Context, refreshToken string) (types.AccessTokenResponse, error) {
	payload, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return types.AccessTokenResponse{}, auth.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.AccessTokenResponse{}, auth.ErrInvalidRefreshToken
		}
		return types.AccessTokenResponse{}, fmt.Errorf("load user: %w", err)
	}
	if user.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return types.AccessTokenResponse{}, auth.ErrInvalidRefreshToken
	}

	accessToken, err := s.tokens.SignAccess(auth.TokenPayload{UserID: user.ID, Email: user.Email})
	if err != nil {
		return types.AccessTokenResponse{}, fmt.Errorf("sign access token: %w", err)
	}

	s.events.Emit(ctx, EventTokenRefreshed, user)
	return types.AccessTokenResponse{AccessToken: accessToken}, nil
}

// issueSession signs a token pair for user and stores the refresh token.
func (s *AuthService) issueSession(ctx context.Context, user types.User) (types.AuthResponse, error) {
	payload := auth.TokenPayload{UserID: user.ID, Email: user.Email}

	accessToken, err := s.tokens.SignAccess(payload)
	if err != nil {
		return types.AuthResponse{}, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err := s.tokens.SignRefresh(payload)
	if err != nil {
		return types.AuthResponse{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return types.AuthResponse{}, fmt.Errorf("store refresh token: %w", err)
	}

	return types.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user.Public(),
	}, nil
}

func (s *AuthService) observe(operation string, err, rejection error) {
	switch {
	case err == nil:
		s.metrics.Observe(operation, metrics.OutcomeSuccess)
	case errors.Is(err, rejection):
		s.metrics.Observe(operation, metrics.OutcomeRejected)
	default:
		s.metrics.Observe(operation, metrics.OutcomeError)
	}
}
