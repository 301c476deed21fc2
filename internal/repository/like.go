package repository

import (
	"context"

	"codelab/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for the like ledger.
type LikeRepository interface {
	// Create inserts a like for (user, post) and reports whether a new row was
	// written. A conflict on the unique (user_id, post_id) index is not an
	// error: the insert is skipped and created=false is returned.
	Create(ctx context.Context, like *models.Like) (created bool, err error)
	// Delete removes the like for (user, post) and reports whether one existed.
	Delete(ctx context.Context, userID uint, postID uuid.UUID) (found bool, err error)
	Exists(ctx context.Context, userID uint, postID uuid.UUID) (bool, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) (bool, error) {
	// INSERT ... ON CONFLICT DO NOTHING keeps the operation race-safe: two
	// concurrent likes resolve to one row, the loser sees RowsAffected == 0.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).
		Create(like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID uint, postID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID uint, postID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *likeRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Like, error) {
	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}
