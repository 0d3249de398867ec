package service

import (
	"context"
	"fmt"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/lib/job"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/google/uuid"
)

const (
	MsgInvalidRole         = "Invalid role"
	MsgInvalidRoleProvided = "Invalid role provided"
	MsgUserNotFound        = "User not found"
	MsgOwnRoleChange       = "You cannot change your own role"
)

// UserService holds the admin user-management operations and profiles.
type UserService struct {
	base
	users UserStore
}

// CreateUser creates an account with an explicit role. Route gating keeps
// it admin-only.
func (s *UserService) CreateUser(ctx context.Context, username, email, password, role string) (*model.User, error) {
	parsed, err := model.ParseRole(role)
	if err != nil {
		return nil, errs.NewBadRequestError(MsgInvalidRole, true, nil, nil, nil)
	}

	user, err := createUser(ctx, s.users, username, email, password, parsed)
	if err != nil {
		return nil, err
	}

	s.logger(ctx).Info().
		Str("created_user_id", user.ID.String()).
		Str("role", user.Role.String()).
		Msg("user created by admin")

	return user, nil
}

// UpdateRole changes another user's role. Checks run in order: role value,
// target existence, self change.
func (s *UserService) UpdateRole(ctx context.Context, actor model.Actor, userID uuid.UUID, role string) (*model.User, error) {
	parsed, err := model.ParseRole(role)
	if err != nil {
		return nil, errs.NewBadRequestError(MsgInvalidRoleProvided, true, nil, nil, nil)
	}

	target, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewNotFoundError(MsgUserNotFound, true, nil)
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	if target.ID == actor.UserID {
		return nil, errs.NewForbiddenError(MsgOwnRoleChange, true)
	}

	updated, err := s.users.UpdateRole(ctx, target.ID, parsed)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewNotFoundError(MsgUserNotFound, true, nil)
		}
		return nil, fmt.Errorf("failed to update role of user %s: %w", userID, err)
	}

	s.logger(ctx).Info().
		Str("target_user_id", updated.ID.String()).
		Str("role", updated.Role.String()).
		Msg("user role updated")

	task, err := job.NewRoleChangedEmailTask(updated.Email, updated.Username, updated.Role.String())
	s.enqueue(ctx, task, err)

	return updated, nil
}

// GetProfile returns the caller's own profile.
func (s *UserService) GetProfile(ctx context.Context, actor model.Actor) (*model.Profile, error) {
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, errs.NewNotFoundError(MsgUserNotFound, true, nil)
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return &model.Profile{Username: user.Username, Email: user.Email}, nil
}
