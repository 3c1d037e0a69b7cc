// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"leaddesk-service/internal/domain/user"
	xerrors "leaddesk-service/internal/pkg/errors"
	"leaddesk-service/internal/pkg/jwt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the credential storage used by the auth service.
type UserStore interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id int64) (*user.User, error)
	ListByRole(ctx context.Context, role user.Role) ([]user.User, error)
	ExistsByRole(ctx context.Context, role user.Role) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	DeleteByEmailAndRole(ctx context.Context, email string, role user.Role) error
}

// LoginLimiter throttles login attempts per client and email.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
}

// TokenRevoker tracks logged-out token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// dummyHash is compared against when the email is unknown so both failure paths cost one bcrypt check.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("leaddesk-timing-equaliser"), bcrypt.DefaultCost)

type AuthService struct {
	users       UserStore
	jwtManager  *jwt.Manager
	limiter     LoginLimiter
	revoker     TokenRevoker
	emailHelper *EmailHelper
	logger      *zap.Logger
}

func NewAuthService(
	users UserStore,
	jwtManager *jwt.Manager,
	limiter LoginLimiter,
	revoker TokenRevoker,
	emailHelper *EmailHelper,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		jwtManager:  jwtManager,
		limiter:     limiter,
		revoker:     revoker,
		emailHelper: emailHelper,
		logger:      logger,
	}
}

// ========== Session ==========

// Login verifies credentials and issues a bearer token. Unknown email and wrong
// password fail identically.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)

	if s.limiter != nil {
		allowed, _, err := s.limiter.CheckLoginAttempt(ctx, req.IPAddress, email)
		if err != nil {
			s.logger.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, xerrors.Wrap(xerrors.ErrRateLimited, "too many login attempts, try again later")
		}
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to find user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		s.logger.Info("login failed", zap.String("ip", req.IPAddress))
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info("login failed", zap.Int64("user_id", u.ID), zap.String("ip", req.IPAddress))
		return nil, xerrors.ErrInvalidCredentials
	}

	issued, err := s.jwtManager.Generator.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.ResetLoginAttempts(ctx, req.IPAddress, email); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	s.logger.Info("user logged in",
		zap.Int64("user_id", u.ID),
		zap.String("role", string(u.Role)),
	)

	return &user.LoginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		User:      u.Summary(),
	}, nil
}

// Authenticate resolves a bearer token to the current user. Every failure is ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*user.Actor, error) {
	if token == "" {
		return nil, xerrors.ErrUnauthorized
	}

	claims, err := s.jwtManager.Verifier.Verify(token)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			// An unreadable blacklist fails closed.
			s.logger.Error("failed to check token blacklist", zap.Error(err))
			return nil, xerrors.ErrUnauthorized
		}
		if revoked {
			return nil, xerrors.ErrUnauthorized
		}
	}

	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, xerrors.ErrNotFound) {
			s.logger.Error("failed to load token user", zap.Int64("user_id", claims.UserID), zap.Error(err))
		}
		return nil, xerrors.ErrUnauthorized
	}

	actor := u.Actor()
	actor.TokenID = claims.ID
	if claims.ExpiresAt != nil {
		actor.ExpiresAt = claims.ExpiresAt.Time
	}
	return actor, nil
}

// Me returns the caller's public profile.
func (s *AuthService) Me(ctx context.Context, actor *user.Actor) (*user.Summary, error) {
	u, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	summary := u.Summary()
	return &summary, nil
}

// Logout blacklists the caller's token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, actor *user.Actor) error {
	if s.revoker == nil || actor.TokenID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, actor.TokenID, time.Until(actor.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	s.logger.Info("user logged out", zap.Int64("user_id", actor.ID))
	return nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, actor *user.Actor, req *user.ChangePasswordRequest) error {
	u, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return xerrors.NewValidationError("currentPassword", "current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, string(hash)); err != nil {
		return err
	}

	s.logger.Info("password changed", zap.Int64("user_id", u.ID))
	s.emailHelper.SendPasswordChanged(u.Email, u.DisplayName)
	return nil
}
