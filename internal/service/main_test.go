package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"codelab/internal/models"
	"codelab/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// --- repository stubs ---

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn              func(context.Context, *models.User) error
	getByIDFn             func(context.Context, uint) (*models.User, error)
	getByEmailFn          func(context.Context, string) (*models.User, error)
	getByUsernameFn       func(context.Context, string) (*models.User, error)
	listFn                func(context.Context, int, int) ([]*models.User, error)
	searchFn              func(context.Context, string, int) ([]*models.User, error)
	countSearchFn         func(context.Context, string) (int64, error)
	usernameSuggestionsFn func(context.Context, string, int) ([]string, error)
	updateFn              func(context.Context, *models.User) error
	deleteFn              func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *userRepoStub) CountSearch(ctx context.Context, query string) (int64, error) {
	return s.countSearchFn(ctx, query)
}
func (s *userRepoStub) UsernameSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	return s.usernameSuggestionsFn(ctx, prefix, limit)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		listFn:          func(_ context.Context, _, _ int) ([]*models.User, error) { return nil, nil },
		searchFn:        func(_ context.Context, _ string, _ int) ([]*models.User, error) { return nil, nil },
		countSearchFn:   func(_ context.Context, _ string) (int64, error) { return 0, nil },
		usernameSuggestionsFn: func(_ context.Context, _ string, _ int) ([]string, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uuid.UUID, uint) (*models.Post, error)
	getByUserIDFn      func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn             func(context.Context, int, int, uint, string) ([]*models.Post, error)
	trendingFn         func(context.Context, time.Time, int, int, uint) ([]*models.Post, error)
	popularFn          func(context.Context, int, int, uint) ([]*models.Post, error)
	searchFn           func(context.Context, string, int, int, uint) ([]*models.Post, error)
	countSearchFn      func(context.Context, string) (int64, error)
	searchAdvancedFn   func(context.Context, string, repository.PostSearchFilters, int, int, uint) ([]*models.Post, error)
	searchByHashtagFn  func(context.Context, string, int, int, uint) ([]*models.Post, error)
	titleSuggestionsFn func(context.Context, string, int) ([]string, error)
	updateFn           func(context.Context, *models.Post) error
	deleteFn           func(context.Context, uuid.UUID) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uuid.UUID, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint, sort string) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID, sort)
}
func (s *postRepoStub) Trending(ctx context.Context, since time.Time, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.trendingFn(ctx, since, limit, offset, currentUserID)
}
func (s *postRepoStub) Popular(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.popularFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *postRepoStub) CountSearch(ctx context.Context, query string) (int64, error) {
	return s.countSearchFn(ctx, query)
}
func (s *postRepoStub) SearchAdvanced(ctx context.Context, query string, filters repository.PostSearchFilters, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchAdvancedFn(ctx, query, filters, limit, offset, currentUserID)
}
func (s *postRepoStub) SearchByHashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.searchByHashtagFn(ctx, tag, limit, offset, currentUserID)
}
func (s *postRepoStub) TitleSuggestions(ctx context.Context, prefix string, limit int) ([]string, error) {
	return s.titleSuggestionsFn(ctx, prefix, limit)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID, _ uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		getByUserIDFn: func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		listFn: func(_ context.Context, _, _ int, _ uint, _ string) ([]*models.Post, error) {
			return nil, nil
		},
		trendingFn: func(_ context.Context, _ time.Time, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		popularFn: func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		searchFn: func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		countSearchFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		searchAdvancedFn: func(_ context.Context, _ string, _ repository.PostSearchFilters, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		searchByHashtagFn: func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Post, error) {
			return nil, nil
		},
		titleSuggestionsFn: func(_ context.Context, _ string, _ int) ([]string, error) { return nil, nil },
		updateFn:           func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:           func(_ context.Context, _ uuid.UUID) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uuid.UUID) (*models.Comment, error)
	listByPostFn  func(context.Context, uuid.UUID) ([]*models.Comment, error)
	listRepliesFn func(context.Context, uuid.UUID) ([]*models.Comment, error)
	searchFn      func(context.Context, string, int) ([]*models.Comment, error)
	countSearchFn func(context.Context, string) (int64, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uuid.UUID) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListReplies(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error) {
	return s.listRepliesFn(ctx, parentID)
}
func (s *commentRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.Comment, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *commentRepoStub) CountSearch(ctx context.Context, query string) (int64, error) {
	return s.countSearchFn(ctx, query)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		listByPostFn:  func(_ context.Context, _ uuid.UUID) ([]*models.Comment, error) { return nil, nil },
		listRepliesFn: func(_ context.Context, _ uuid.UUID) ([]*models.Comment, error) { return nil, nil },
		searchFn:      func(_ context.Context, _ string, _ int) ([]*models.Comment, error) { return nil, nil },
		countSearchFn: func(_ context.Context, _ string) (int64, error) { return 0, nil },
		updateFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:      func(_ context.Context, _ uuid.UUID) error { return nil },
	}
}

// likeRepoStub is a stub for repository.LikeRepository.
type likeRepoStub struct {
	createFn      func(context.Context, *models.Like) (bool, error)
	deleteFn      func(context.Context, uint, uuid.UUID) (bool, error)
	existsFn      func(context.Context, uint, uuid.UUID) (bool, error)
	countByPostFn func(context.Context, uuid.UUID) (int64, error)
	listByPostFn  func(context.Context, uuid.UUID) ([]*models.Like, error)
}

func (s *likeRepoStub) Create(ctx context.Context, like *models.Like) (bool, error) {
	return s.createFn(ctx, like)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID uint, postID uuid.UUID) (bool, error) {
	return s.deleteFn(ctx, userID, postID)
}
func (s *likeRepoStub) Exists(ctx context.Context, userID uint, postID uuid.UUID) (bool, error) {
	return s.existsFn(ctx, userID, postID)
}
func (s *likeRepoStub) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	return s.countByPostFn(ctx, postID)
}
func (s *likeRepoStub) ListByPost(ctx context.Context, postID uuid.UUID) ([]*models.Like, error) {
	return s.listByPostFn(ctx, postID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		createFn:      func(_ context.Context, _ *models.Like) (bool, error) { return true, nil },
		deleteFn:      func(_ context.Context, _ uint, _ uuid.UUID) (bool, error) { return true, nil },
		existsFn:      func(_ context.Context, _ uint, _ uuid.UUID) (bool, error) { return false, nil },
		countByPostFn: func(_ context.Context, _ uuid.UUID) (int64, error) { return 0, nil },
		listByPostFn:  func(_ context.Context, _ uuid.UUID) ([]*models.Like, error) { return nil, nil },
	}
}

// notifRepoStub is a stub for repository.NotificationRepository.
type notifRepoStub struct {
	createFn          func(context.Context, *models.Notification) error
	getByIDFn         func(context.Context, uuid.UUID, uint) (*models.Notification, error)
	listByRecipientFn func(context.Context, uint, bool, int, int) ([]*models.Notification, error)
	countUnreadFn     func(context.Context, uint) (int64, error)
	updateFn          func(context.Context, *models.Notification) error
	markAllReadFn     func(context.Context, uint, time.Time) (int64, error)
	deleteReadFn      func(context.Context, uint) (int64, error)
}

func (s *notifRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	return s.createFn(ctx, notification)
}
func (s *notifRepoStub) GetByID(ctx context.Context, id uuid.UUID, recipientID uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id, recipientID)
}
func (s *notifRepoStub) ListByRecipient(ctx context.Context, recipientID uint, onlyUnread bool, limit, offset int) ([]*models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, onlyUnread, limit, offset)
}
func (s *notifRepoStub) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}
func (s *notifRepoStub) Update(ctx context.Context, notification *models.Notification) error {
	return s.updateFn(ctx, notification)
}
func (s *notifRepoStub) MarkAllRead(ctx context.Context, recipientID uint, at time.Time) (int64, error) {
	return s.markAllReadFn(ctx, recipientID, at)
}
func (s *notifRepoStub) DeleteRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.deleteReadFn(ctx, recipientID)
}

func noopNotifRepo() *notifRepoStub {
	return &notifRepoStub{
		createFn: func(_ context.Context, _ *models.Notification) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID, recipientID uint) (*models.Notification, error) {
			return &models.Notification{ID: id, RecipientID: recipientID}, nil
		},
		listByRecipientFn: func(_ context.Context, _ uint, _ bool, _, _ int) ([]*models.Notification, error) {
			return nil, nil
		},
		countUnreadFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		updateFn:      func(_ context.Context, _ *models.Notification) error { return nil },
		markAllReadFn: func(_ context.Context, _ uint, _ time.Time) (int64, error) { return 0, nil },
		deleteReadFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// uowStub satisfies repository.UnitOfWork by running the function directly
// against the provided repositories, with no transaction underneath.
type uowStub struct {
	repos repository.Repos
}

func (u *uowStub) Do(_ context.Context, fn func(repository.Repos) error) error {
	return fn(u.repos)
}

// --- assertion helpers ---

func gormNotFound() error {
	return gorm.ErrRecordNotFound
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}
