package repository

import (
	"context"

	"codelab/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Comment, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Select("comments.*, (SELECT COUNT(*) FROM comments AS replies WHERE replies.parent_id = comments.id) as reply_count").
		Preload("User").
		Where("comments.id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns top-level comments for the post, newest first, with
// replies and their authors attached.
func (r *commentRepository) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error) {
	var replies []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

const commentSearchCond = `LOWER(content) LIKE LOWER(?) ESCAPE '\'`

func (r *commentRepository) Search(ctx context.Context, query string, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	like := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Preload("User").
		Where(commentSearchCond, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&comments).Error
	return comments, err
}

// CountSearch reports how many comments match the query, independent of the
// result cap applied by Search.
func (r *commentRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	like := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where(commentSearchCond, like).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// Delete removes the comment, its direct replies and every notification
// referencing either. Runs children-first inside the caller's transaction.
func (r *commentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec(
		`DELETE FROM notifications WHERE comment_id = ?
		 OR comment_id IN (SELECT id FROM comments WHERE parent_id = ?)`,
		id, id,
	).Error; err != nil {
		return err
	}
	if err := db.Where("parent_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Comment{}).Error
}
