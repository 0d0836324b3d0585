package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/attractions-admin/internal/domain/model"
	"github.com/target/attractions-admin/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Backend ports.UserBackend // Required
	Logger  *slog.Logger      // Optional
}

// UserService validates user-management actions before forwarding them to the backend.
type UserService struct {
	backend ports.UserBackend
	logger  *slog.Logger
}

// NewUserService constructs a UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Backend == nil {
		panic("UserService requires a backend")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{backend: opts.Backend, logger: logger.With("component", "user_service")}
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]model.DashboardUser, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// EditRoles assigns one role to every selected user in a single bulk update.
func (s *UserService) EditRoles(ctx context.Context, req model.EditRolesRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.backend.BulkUpdateUsers(ctx, req.ToBulkUpdate()); err != nil {
		return fmt.Errorf("edit user roles: %w", err)
	}
	s.logger.InfoContext(ctx, "user roles edited", "count", len(req.UserIDs), "role", req.Role)
	return nil
}

// Delete removes a single user outright. Several users are instead deactivated
// in one bulk update.
func (s *UserService) Delete(ctx context.Context, req model.UserSelectionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if len(req.UserIDs) == 1 {
		if err := s.backend.DeleteUser(ctx, req.UserIDs[0]); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	}

	inactive := false
	if err := s.backend.BulkUpdateUsers(ctx, model.BulkUserUpdate{IDs: req.UserIDs, IsActive: &inactive}); err != nil {
		return fmt.Errorf("deactivate users: %w", err)
	}
	s.logger.InfoContext(ctx, "users deactivated", "count", len(req.UserIDs))
	return nil
}

// Activate re-enables the selected users one at a time, stopping at the first failure.
func (s *UserService) Activate(ctx context.Context, req model.UserSelectionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	for _, id := range req.UserIDs {
		if err := s.backend.ActivateUser(ctx, id); err != nil {
			return fmt.Errorf("activate user %s: %w", id, err)
		}
	}
	return nil
}
