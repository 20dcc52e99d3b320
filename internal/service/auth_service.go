package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/cards-api/internal/domain"
	"github.com/phrazzld/cards-api/internal/platform/logger"
	"github.com/phrazzld/cards-api/internal/service/auth"
	"github.com/phrazzld/cards-api/internal/store"
)

// UserRepository looks up accounts for sign-in.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// SignInResult is a successful sign-in.
type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService signs users in.
type AuthService interface {
	// SignIn verifies the password for email and issues an access token.
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
}

type authServiceImpl struct {
	users    UserRepository
	verifier auth.PasswordVerifier
	tokens   auth.JWTService
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserRepository,
	verifier auth.PasswordVerifier,
	tokens auth.JWTService,
	logger *slog.Logger,
) (AuthService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrRequiredField)
	}
	if verifier == nil {
		return nil, domain.NewValidationError("verifier", "cannot be nil", domain.ErrRequiredField)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrRequiredField)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &authServiceImpl{
		users:    users,
		verifier: verifier,
		tokens:   tokens,
		logger:   logger.With(slog.String("component", "auth_service")),
	}, nil
}

func invalidSignIn(err error) *Error {
	return newError(KindUnauthenticated, CodeInvalidSignIn, "Invalid username or password", err)
}

// SignIn implements AuthService.SignIn. Unknown emails and wrong passwords
// produce the same error.
func (s *authServiceImpl) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(email) == "" {
		return nil, newError(KindValidation, CodeRequiredField,
			"Email must be provided to complete this request", nil)
	}
	if password == "" {
		return nil, newError(KindValidation, CodeRequiredField,
			"Password must be provided to complete this request", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("sign-in for unknown email")
			return nil, invalidSignIn(err)
		}
		log.Error("failed to look up user for sign-in", slog.String("error", err.Error()))
		return nil, classify(err, 0)
	}

	if err := s.verifier.Compare(user.PasswordHash, password); err != nil {
		log.Debug("sign-in with wrong password", slog.Uint64("user_id", user.ID))
		return nil, invalidSignIn(err)
	}

	token, err := s.tokens.GenerateToken(ctx, auth.TokenSubject{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  user.Roles,
	})
	if err != nil {
		log.Error("failed to issue token",
			slog.String("error", err.Error()),
			slog.Uint64("user_id", user.ID))
		return nil, classify(err, 0)
	}

	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		log.Error("issued token failed validation",
			slog.String("error", err.Error()),
			slog.Uint64("user_id", user.ID))
		return nil, classify(err, 0)
	}

	log.Info("user signed in", slog.Uint64("user_id", user.ID))
	return &SignInResult{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}
