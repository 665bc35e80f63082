package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DannyJSullivan/card-inventory-api/internal/auth"
	"github.com/DannyJSullivan/card-inventory-api/internal/domain"
	"github.com/DannyJSullivan/card-inventory-api/internal/repository"
	"github.com/DannyJSullivan/card-inventory-api/pkg/database"
	apperrors "github.com/DannyJSullivan/card-inventory-api/pkg/errors"
	"github.com/DannyJSullivan/card-inventory-api/pkg/logger"
	"github.com/DannyJSullivan/card-inventory-api/pkg/tracing"
)

// LogoutMessage acknowledges a logout. Tokens are stateless, so nothing is
// revoked; clients discard the token.
const LogoutMessage = "Successfully logged out"

var tracer = tracing.Tracer("github.com/DannyJSullivan/card-inventory-api/internal/service")

// PasswordHasher hashes and checks passwords. AuthService never calls it
// while holding a session.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
	Burn(plaintext string)
}

// AuthService implements registration, login and token resolution. Each
// call that touches storage runs in exactly one session from tx.
type AuthService struct {
	users   repository.UserRepository
	tx      database.Transactor
	hasher  PasswordHasher
	tokens  *auth.JWTManager
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	tx database.Transactor,
	hasher PasswordHasher,
	tokens *auth.JWTManager,
	metrics *Metrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tx:      tx,
		hasher:  hasher,
		tokens:  tokens,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput holds the parameters for user login.
type LoginInput struct {
	Username string
	Password string
}

// Register creates an active, non-admin user. The password is hashed before
// the session is opened. The username is checked before the email, so a
// request colliding on both reports the username.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (_ *domain.User, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Register", trace.WithAttributes(attribute.String("user.username", in.Username)))
	defer func() { endSpan(span, err) }()

	var user *domain.User
	hash, err := s.hasher.Hash(in.Password)
	if err == nil {
		err = s.tx.WithTx(ctx, func(ctx context.Context, db database.DBTX) error {
			if err := s.ensureFree(ctx, db, in.Username, in.Email); err != nil {
				return err
			}

			u := domain.NewUser(in.Username, in.Email, hash)
			if err := s.users.Create(ctx, db, u); err != nil {
				return err
			}
			user = u
			return nil
		})
	}

	l := logger.WithContext(ctx, s.logger)
	switch {
	case err == nil:
		s.metrics.registration(outcomeSuccess)
		l.InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
		return user, nil
	case errors.Is(err, domain.ErrDuplicateUsername):
		s.metrics.registration(outcomeDuplicateUsername)
	case errors.Is(err, domain.ErrDuplicateEmail):
		s.metrics.registration(outcomeDuplicateEmail)
	case errors.Is(err, domain.ErrConflict):
		s.metrics.registration(outcomeConflict)
	default:
		s.metrics.registration(outcomeError)
		return nil, fmt.Errorf("register: %w", err)
	}
	l.InfoContext(ctx, "registration rejected", slog.String("username", in.Username), slog.String("reason", err.Error()))
	return nil, err
}

func (s *AuthService) ensureFree(ctx context.Context, db database.DBTX, username, email string) error {
	if _, err := s.users.GetByUsername(ctx, db, username); err == nil {
		return domain.DuplicateUsername()
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("lookup username: %w", err)
	}

	if _, err := s.users.GetByEmail(ctx, db, email); err == nil {
		return domain.DuplicateEmail()
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}
	return nil
}

// Login verifies credentials and issues an access token. The session is
// released before the password is checked. Unknown usernames and wrong
// passwords produce the same InvalidCredentials error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (_ *domain.Token, err error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	l := logger.WithContext(ctx, s.logger)

	var user *domain.User
	err = s.tx.WithTx(ctx, func(ctx context.Context, db database.DBTX) error {
		u, err := s.users.GetByUsername(ctx, db, in.Username)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		s.hasher.Burn(in.Password)
		err = domain.InvalidCredentials()
	case err != nil:
		err = fmt.Errorf("lookup user: %w", err)
	case !s.hasher.Verify(in.Password, user.PasswordHash):
		err = domain.InvalidCredentials()
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.metrics.login(outcomeInvalidCredentials)
			l.WarnContext(ctx, "login rejected", slog.String("username", in.Username))
			return nil, err
		}
		s.metrics.login(outcomeError)
		return nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.issue(user.Username)
	if err != nil {
		s.metrics.login(outcomeError)
		return nil, err
	}

	s.metrics.login(outcomeSuccess)
	l.InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return token, nil
}

// ValidateToken checks a token's signature and expiry without touching
// storage and returns its subject.
func (s *AuthService) ValidateToken(_ context.Context, token string) (string, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return "", domain.Unauthenticated()
	}
	return claims.Subject, nil
}

// CurrentUser resolves a token to its active user.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	user, _, err := s.resolve(ctx, token)
	return user, err
}

// Refresh issues a new token with a full lifetime for the holder of a valid
// token. The presented token stays valid until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, token string) (*domain.Token, error) {
	user, _, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.issue(user.Username)
}

// TokenStatus reports the subject and remaining lifetime of a valid token.
func (s *AuthService) TokenStatus(ctx context.Context, token string) (*domain.TokenStatus, error) {
	user, claims, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	st := domain.NewTokenStatus(user.Username, claims.ExpiresAt.Time, s.now())
	return &st, nil
}

// Logout acknowledges a logout without any server-side effect.
func (s *AuthService) Logout(_ context.Context) string {
	return LogoutMessage
}

func (s *AuthService) resolve(ctx context.Context, token string) (*domain.User, *auth.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, nil, domain.Unauthenticated()
	}

	var user *domain.User
	err = s.tx.WithTx(ctx, func(ctx context.Context, db database.DBTX) error {
		u, err := s.users.GetByUsername(ctx, db, claims.Subject)
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Unauthenticated()
		}
		if err != nil {
			return fmt.Errorf("lookup user: %w", err)
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.InactiveUser()
	}
	return user, claims, nil
}

func (s *AuthService) issue(username string) (*domain.Token, error) {
	signed, expiresAt, err := s.tokens.GenerateAccessToken(username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.Token{AccessToken: signed, TokenType: domain.TokenTypeBearer, ExpiresAt: expiresAt}, nil
}

func endSpan(span trace.Span, err error) {
	var appErr *apperrors.AppError
	if err != nil && !errors.As(err, &appErr) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
