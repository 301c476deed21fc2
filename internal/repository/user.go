package repository

import (
	"context"
	"errors"

	"codelab/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	UsernameSuggestions(ctx context.Context, prefix string, limit int) ([]string, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// applyUserCounts adds subqueries for authored post and comment counts.
func applyUserCounts(db *gorm.DB) *gorm.DB {
	return db.Select("users.*, " +
		"(SELECT COUNT(*) FROM posts WHERE posts.user_id = users.id) as post_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.user_id = users.id) as comment_count")
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := applyUserCounts(r.db.WithContext(ctx)).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user exists so callers can
// distinguish "absent" from infrastructure failure.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := applyUserCounts(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	return users, err
}

const userSearchCond = `LOWER(username) LIKE LOWER(?) ESCAPE '\' OR LOWER(first_name) LIKE LOWER(?) ESCAPE '\' ` +
	`OR LOWER(last_name) LIKE LOWER(?) ESCAPE '\' OR LOWER(email) LIKE LOWER(?) ESCAPE '\'`

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	var users []*models.User
	like := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(userSearchCond, like, like, like, like).
		Order("created_at DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// CountSearch reports how many active users match the query, independent of
// the result cap applied by Search.
func (r *userRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	like := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ?", true).
		Where(userSearchCond, like, like, like, like).
		Count(&count).Error
	return count, err
}

func (r *userRepository) UsernameSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	var usernames []string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ?", true).
		Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\'`, escapeLike(prefix)+"%").
		Order("username").
		Limit(limit).
		Pluck("username", &usernames).Error
	return usernames, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes the user and everything they authored: their posts (with
// those posts' likes, comments and notifications), their own comments and
// replies to them, their likes, and notifications they sent or received.
// Children are removed before parents inside the caller's transaction.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	db := r.db.WithContext(ctx)

	if err := db.Exec(
		`DELETE FROM notifications WHERE recipient_id = ? OR sender_id = ?
		 OR post_id IN (SELECT id FROM posts WHERE user_id = ?)
		 OR comment_id IN (SELECT id FROM comments WHERE user_id = ?)`,
		id, id, id, id,
	).Error; err != nil {
		return err
	}

	if err := db.Exec(
		`DELETE FROM likes WHERE user_id = ?
		 OR post_id IN (SELECT id FROM posts WHERE user_id = ?)`,
		id, id,
	).Error; err != nil {
		return err
	}

	if err := db.Exec(
		`DELETE FROM comments WHERE user_id = ?
		 OR post_id IN (SELECT id FROM posts WHERE user_id = ?)
		 OR parent_id IN (SELECT id FROM (SELECT id FROM comments WHERE user_id = ?) AS own)`,
		id, id, id,
	).Error; err != nil {
		return err
	}

	if err := db.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
		return err
	}

	return db.Delete(&models.User{}, id).Error
}
