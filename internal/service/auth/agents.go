// internal/service/auth/agents.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"leaddesk-service/internal/domain/user"
	xerrors "leaddesk-service/internal/pkg/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrAgentExists is returned when the agent code or email is taken.
var ErrAgentExists = xerrors.Conflict("Agent ID or email already exists")

// AdminSeed describes the bootstrap administrator.
type AdminSeed struct {
	Email       string
	Password    string
	DisplayName string
	AgentCode   string
	Mobile      string
}

// CreateAgent registers a new agent credential.
func (s *AuthService) CreateAgent(ctx context.Context, req *user.CreateAgentRequest) (*user.User, error) {
	u, err := s.createUser(ctx, user.RoleAgent, req.DisplayName, req.AgentCode, req.Email, req.Mobile, req.Password)
	if err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return nil, ErrAgentExists
		}
		return nil, err
	}

	s.logger.Info("agent created",
		zap.Int64("user_id", u.ID),
		zap.String("agent_code", u.AgentCode),
	)
	s.emailHelper.SendAgentWelcome(u.Email, u.DisplayName, u.AgentCode)

	return u, nil
}

// ListAgents returns every agent. Password hashes never leave the struct.
func (s *AuthService) ListAgents(ctx context.Context) ([]user.User, error) {
	return s.users.ListByRole(ctx, user.RoleAgent)
}

// EnsureAdminExists creates the bootstrap admin if no admin exists yet.
// It reports whether an account was created.
func (s *AuthService) EnsureAdminExists(ctx context.Context, seed AdminSeed) (bool, error) {
	exists, err := s.users.ExistsByRole(ctx, user.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check admin existence: %w", err)
	}
	if exists {
		s.logger.Info("admin already exists, skipping creation")
		return false, nil
	}

	if seed.Email == "" || seed.Password == "" {
		return false, fmt.Errorf("admin email and password must be provided")
	}
	if seed.DisplayName == "" {
		seed.DisplayName = "Administrator"
	}
	if seed.AgentCode == "" {
		seed.AgentCode = "ADMIN"
	}

	u, err := s.createUser(ctx, user.RoleAdmin, seed.DisplayName, seed.AgentCode, seed.Email, seed.Mobile, seed.Password)
	if err != nil {
		if errors.Is(err, xerrors.ErrConflict) {
			return false, fmt.Errorf("email %s or code %s already belongs to a non-admin user", seed.Email, seed.AgentCode)
		}
		return false, err
	}

	s.logger.Info("admin created",
		zap.String("email", u.Email),
		zap.Int64("user_id", u.ID),
	)
	return true, nil
}

// DeleteAdmin removes the admin with the given email.
func (s *AuthService) DeleteAdmin(ctx context.Context, email string) error {
	if err := s.users.DeleteByEmailAndRole(ctx, email, user.RoleAdmin); err != nil {
		return err
	}
	s.logger.Info("admin deleted", zap.String("email", email))
	return nil
}

func (s *AuthService) createUser(ctx context.Context, role user.Role, displayName, code, email, mobile, password string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		DisplayName:  strings.TrimSpace(displayName),
		AgentCode:    strings.TrimSpace(code),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Mobile:       strings.TrimSpace(mobile),
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
