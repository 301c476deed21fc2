package service

import (
	"context"
	"strings"

	"codelab/internal/models"
	"codelab/internal/repository"
)

// UserService owns profile reads, profile edits and account deletion.
type UserService struct {
	userRepo repository.UserRepository
	uow      repository.UnitOfWork
}

type UpdateProfileInput struct {
	UserID    uint
	FirstName *string
	LastName  *string
	Bio       *string
	Avatar    *string
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, uow repository.UnitOfWork) *UserService {
	return &UserService{userRepo: userRepo, uow: uow}
}

// GetProfile returns a user annotated with authored post/comment counts.
func (s *UserService) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, orNotFound(err, "User", id)
	}
	return user, nil
}

// ListUsers returns a page of users, newest first.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

const maxBioLen = 500

// UpdateProfile applies partial profile edits to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, orNotFound(err, "User", in.UserID)
	}

	if in.FirstName != nil {
		user.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		user.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = *in.Bio
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, user.ID)
}

// DeleteAccount removes the user and cascades to everything they authored —
// posts (with their likes, comments and notifications), comments, replies to
// their comments, likes, and notifications sent or received — in one
// transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return orNotFound(err, "User", userID)
	}
	return s.uow.Do(ctx, func(r repository.Repos) error {
		return r.Users.Delete(ctx, userID)
	})
}
