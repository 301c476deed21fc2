// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles every repository bound to the same *gorm.DB handle.
type Repos struct {
	Users         UserRepository
	Posts         PostRepository
	Comments      CommentRepository
	Likes         LikeRepository
	Notifications NotificationRepository
}

// NewRepos constructs all repositories over the given DB handle.
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:         NewUserRepository(db),
		Posts:         NewPostRepository(db),
		Comments:      NewCommentRepository(db),
		Likes:         NewLikeRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// UnitOfWork runs a function against repositories bound to a single
// transaction. A triggering mutation and its derived notification commit
// together or not at all.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Repos) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a UnitOfWork backed by gorm transactions.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
