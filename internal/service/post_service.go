package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"codelab/internal/cache"
	"codelab/internal/middleware"
	"codelab/internal/models"
	"codelab/internal/repository"

	"github.com/google/uuid"
)

// TrendingWindow bounds how far back the trending feed looks.
const TrendingWindow = 24 * time.Hour

// PostService owns post CRUD, the like ledger and feed assembly.
type PostService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	userRepo repository.UserRepository
	uow      repository.UnitOfWork
	notifier *Notifier
}

type CreatePostInput struct {
	UserID   uint
	Title    string
	Content  string
	ImageURL string
}

type ListPostsInput struct {
	Limit         int
	Offset        int
	Sort          string
	CurrentUserID uint
}

type UpdatePostInput struct {
	UserID   uint
	PostID   uuid.UUID
	Title    string
	Content  string
	ImageURL string
}

type DeletePostInput struct {
	UserID uint
	PostID uuid.UUID
}

// PostLikes is the like read model for one post.
type PostLikes struct {
	Count int64          `json:"count"`
	Likes []*models.Like `json:"likes"`
}

// NewPostService creates a new PostService.
func NewPostService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	uow repository.UnitOfWork,
	notifier *Notifier,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		userRepo: userRepo,
		uow:      uow,
		notifier: notifier,
	}
}

const maxTitleLen = 255

// CreatePost validates and persists a new post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 255 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}

	post := &models.Post{
		Title:    title,
		Content:  in.Content,
		ImageURL: in.ImageURL,
		UserID:   in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidateFeed(ctx)

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns one post annotated with counts and the caller's like state.
// Anonymous reads are served cache-aside; authenticated reads always hit the
// store because the liked flag is per viewer.
func (s *PostService) GetPost(ctx context.Context, id uuid.UUID, currentUserID uint) (*models.Post, error) {
	if currentUserID == 0 {
		var post *models.Post
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			var fetchErr error
			post, fetchErr = s.postRepo.GetByID(ctx, id, 0)
			return fetchErr
		})
		if err != nil {
			return nil, orNotFound(err, "Post", id)
		}
		return post, nil
	}

	post, err := s.postRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return nil, orNotFound(err, "Post", id)
	}
	return post, nil
}

// ListPosts returns a page of posts under the requested sort order.
// The anonymous first page of the default feed is served cache-aside.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	sort := in.Sort
	if sort == "" {
		sort = repository.PostSortNew
	}

	if in.CurrentUserID == 0 && in.Offset == 0 && sort == repository.PostSortNew && in.Limit <= 20 {
		var posts []*models.Post
		err := cache.Aside(ctx, cache.FeedKey(in.Limit), &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, 0, 0, sort)
			return fetchErr
		})
		return posts, err
	}

	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID, sort)
}

// Trending returns posts created within the trending window, most liked
// first, ties broken by recency.
func (s *PostService) Trending(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	since := time.Now().Add(-TrendingWindow)
	return s.postRepo.Trending(ctx, since, limit, offset, currentUserID)
}

// Popular returns all-time posts ordered by likes, then comments, then recency.
func (s *PostService) Popular(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.Popular(ctx, limit, offset, currentUserID)
}

// GetUserPosts returns one author's posts, newest first.
func (s *PostService) GetUserPosts(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, orNotFound(err, "User", userID)
	}
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

// UpdatePost applies partial edits. Only the author may update; the author
// reference itself is immutable.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, orNotFound(err, "Post", in.PostID)
	}
	if post.UserID != in.UserID {
		return nil, models.NewPermissionDeniedError("You can only edit your own posts")
	}

	if in.Title != "" {
		if utf8.RuneCountInString(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 255 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.ImageURL != "" {
		post.ImageURL = in.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	cache.InvalidateFeed(ctx)
	cache.InvalidatePost(ctx, post.ID)
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes a post and cascades to its likes, comments and
// notifications in one transaction. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return orNotFound(err, "Post", in.PostID)
	}
	if post.UserID != in.UserID {
		return models.NewPermissionDeniedError("You can only delete your own posts")
	}

	err = s.uow.Do(ctx, func(r repository.Repos) error {
		return r.Posts.Delete(ctx, post.ID)
	})
	if err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// LikePost records a like for (user, post). Liking twice is a no-op reported
// as created=false, including when a concurrent request won the insert race.
// A fresh like notifies the post author in the same transaction, unless the
// liker is the author.
func (s *PostService) LikePost(ctx context.Context, userID uint, postID uuid.UUID) (*models.Post, bool, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, false, orNotFound(err, "Post", postID)
	}
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, false, orNotFound(err, "User", userID)
	}

	var created bool
	err = s.uow.Do(ctx, func(r repository.Repos) error {
		like := &models.Like{UserID: userID, PostID: postID}
		var likeErr error
		created, likeErr = r.Likes.Create(ctx, like)
		if likeErr != nil {
			return likeErr
		}
		if !created {
			return nil
		}
		return s.notifier.LikeCreated(ctx, r.Notifications, actor, post)
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		middleware.LikesRecorded.WithLabelValues("created").Inc()
	} else {
		middleware.LikesRecorded.WithLabelValues("duplicate").Inc()
	}

	refreshed, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, false, err
	}
	return refreshed, created, nil
}

// UnlikePost removes the caller's like. Removing a like that does not exist
// is NotFound, not a silent no-op.
func (s *PostService) UnlikePost(ctx context.Context, userID uint, postID uuid.UUID) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, userID); err != nil {
		return nil, orNotFound(err, "Post", postID)
	}

	found, err := s.likeRepo.Delete(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "You have not liked this post"}
	}

	return s.postRepo.GetByID(ctx, postID, userID)
}

// GetLikes returns the like rows and live count for a post.
func (s *PostService) GetLikes(ctx context.Context, postID uuid.UUID) (*PostLikes, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, orNotFound(err, "Post", postID)
	}
	likes, err := s.likeRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &PostLikes{Count: count, Likes: likes}, nil
}
