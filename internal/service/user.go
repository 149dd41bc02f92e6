package service

import (
	"context"
	"errors"
	"fmt"

	"motorent-backend/internal/domain"
	"motorent-backend/internal/logger"
	"motorent-backend/internal/repository"
)

var ErrUnknownRole = errors.New("unknown role")

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.List(ctx)
}

// GetUser allows admins to fetch anyone and users to fetch themselves.
func (s *userService) GetUser(ctx context.Context, caller domain.Caller, id int32) (*domain.User, error) {
	if id != caller.UserID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.userRepo.GetByID(ctx, id)
}

// GrantRole adds a role to the user's set. Granting a role the user already
// holds is a no-op.
func (s *userService) GrantRole(ctx context.Context, caller domain.Caller, userID int32, role string) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validRole(role); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.HasRole(role) {
		return u, nil
	}

	u.Roles = append(u.Roles, role)
	if err := s.userRepo.UpdateRoles(ctx, u.ID, u.Roles); err != nil {
		return nil, err
	}
	logger.Info("Role granted", "user_id", u.ID, "role", role, "admin_id", caller.UserID)
	return u, nil
}

func (s *userService) RevokeRole(ctx context.Context, caller domain.Caller, userID int32, role string) (*domain.User, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if err := validRole(role); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(role) {
		return u, nil
	}

	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		if r != role {
			roles = append(roles, r)
		}
	}
	u.Roles = roles
	if err := s.userRepo.UpdateRoles(ctx, u.ID, u.Roles); err != nil {
		return nil, err
	}
	logger.Info("Role revoked", "user_id", u.ID, "role", role, "admin_id", caller.UserID)
	return u, nil
}

func validRole(role string) error {
	switch role {
	case domain.RoleRenter, domain.RoleAdmin:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownRole, role)
}
