package repository

import (
	"context"
	"strings"
	"time"

	"codelab/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post sort orders accepted by List. Ties always break most-recent-first.
const (
	PostSortNew       = "new"
	PostSortTop       = "top"
	PostSortDiscussed = "discussed"
)

// PostSearchFilters narrows SearchAdvanced beyond the text query.
// Zero values mean "no filter".
type PostSearchFilters struct {
	AuthorID uint
	MinLikes int
	HasImage bool
	// OrderBy accepts -created_at (default), created_at, -like_count,
	// -comment_count. Anything else falls back to newest first.
	OrderBy string
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error)
	Trending(ctx context.Context, since time.Time, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Popular(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	CountSearch(ctx context.Context, query string) (int64, error)
	SearchAdvanced(ctx context.Context, query string, filters PostSearchFilters, limit, offset int, currentUserID uint) ([]*models.Post, error)
	SearchByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error)
	TitleSuggestions(ctx context.Context, prefix string, limit int) ([]string, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// escapeLike neutralizes LIKE wildcards so user input matches literally.
// Conditions using the result must carry an ESCAPE '\' clause.
func escapeLike(q string) string {
	q = strings.ReplaceAll(q, `\`, `\\`)
	q = strings.ReplaceAll(q, `%`, `\%`)
	return strings.ReplaceAll(q, `_`, `\_`)
}

const postSearchCond = `LOWER(title) LIKE LOWER(?) ESCAPE '\' OR LOWER(content) LIKE LOWER(?) ESCAPE '\'`

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
// comments_count covers top-level comments only; replies are not counted.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.parent_id IS NULL) as comments_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", 0 = 1 as liked")
}

// applySort appends the ORDER BY clause for the requested sort order.
// likes_count and comments_count are SELECT aliases from applyPostDetails.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case PostSortTop:
		return db.Order("likes_count DESC, created_at DESC")
	case PostSortDiscussed:
		return db.Order("comments_count DESC, created_at DESC")
	default: // PostSortNew and anything unrecognized
		return db.Order("created_at DESC")
	}
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID, currentUserID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User")
	err := r.applySort(base, sort).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// Trending restricts to posts created after `since`, ordered by like count
// then recency.
func (r *postRepository) Trending(ctx context.Context, since time.Time, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("posts.created_at >= ?", since).
		Order("likes_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Popular(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("likes_count DESC, comments_count DESC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	like := "%" + escapeLike(query) + "%"
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where(postSearchCond, like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// CountSearch reports how many posts match the query, independent of the
// result cap applied by Search.
func (r *postRepository) CountSearch(ctx context.Context, query string) (int64, error) {
	var count int64
	like := "%" + escapeLike(query) + "%"
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where(postSearchCond, like, like).
		Count(&count).Error
	return count, err
}

func (r *postRepository) SearchAdvanced(ctx context.Context, query string, filters PostSearchFilters, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	like := "%" + escapeLike(query) + "%"
	db := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where(postSearchCond, like, like)

	if filters.AuthorID != 0 {
		db = db.Where("user_id = ?", filters.AuthorID)
	}
	if filters.MinLikes > 0 {
		// WHERE cannot reference the likes_count SELECT alias, so the
		// subquery is repeated here.
		db = db.Where("(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) >= ?", filters.MinLikes)
	}
	if filters.HasImage {
		db = db.Where("image_url <> ''")
	}

	switch filters.OrderBy {
	case "created_at":
		db = db.Order("created_at ASC")
	case "-like_count":
		db = db.Order("likes_count DESC, created_at DESC")
	case "-comment_count":
		db = db.Order("comments_count DESC, created_at DESC")
	default:
		db = db.Order("created_at DESC")
	}

	var posts []*models.Post
	err := db.Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

// SearchByHashtag returns posts whose title or content mentions #tag,
// newest first.
func (r *postRepository) SearchByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	like := "%#" + escapeLike(tag) + "%"
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where(postSearchCond, like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) TitleSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, escapeLike(prefix)+"%").
		Order("created_at DESC").
		Limit(limit).
		Pluck("title", &titles).Error
	return titles, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes the post and everything hanging off it: likes, comments
// (replies carry the same post_id) and notifications referencing the post.
// Runs children-first inside the caller's transaction.
func (r *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("post_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.Post{}).Error
}
