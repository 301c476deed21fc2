package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"codelab/internal/models"
	"codelab/internal/repository"

	"github.com/google/uuid"
)

// CommentService enforces the comment-thread rules: content limits, the
// one-level reply invariant, edit tracking and cascade deletion.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	uow         repository.UnitOfWork
	notifier    *Notifier
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uuid.UUID
	Content string
}

type CreateReplyInput struct {
	UserID   uint
	ParentID uuid.UUID
	Content  string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uuid.UUID
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uuid.UUID
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	uow repository.UnitOfWork,
	notifier *Notifier,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		uow:         uow,
		notifier:    notifier,
	}
}

// validateContent trims and bounds comment content. The limit counts
// characters, not bytes, so multibyte text is not penalized.
func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", models.NewValidationError("Comment content cannot be empty")
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLen {
		return "", models.NewValidationError("Comment cannot exceed 1000 characters")
	}
	return content, nil
}

// CreateComment adds a top-level comment to a post and, in the same
// transaction, notifies the post author (unless commenting on their own post).
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, orNotFound(err, "Post", in.PostID)
	}
	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, orNotFound(err, "User", in.UserID)
	}

	comment := &models.Comment{
		Content: content,
		UserID:  in.UserID,
		PostID:  post.ID,
	}
	err = s.uow.Do(ctx, func(r repository.Repos) error {
		if err := r.Comments.Create(ctx, comment); err != nil {
			return err
		}
		return s.notifier.CommentCreated(ctx, r.Notifications, actor, post, comment)
	})
	if err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// CreateReply adds a reply under a top-level comment. The reply's post is
// inherited from the parent, never supplied by the caller. Replying to a
// reply is rejected: threads are exactly one level deep.
func (s *CommentService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Comment, error) {
	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}

	parent, err := s.commentRepo.GetByID(ctx, in.ParentID)
	if err != nil {
		return nil, orNotFound(err, "Comment", in.ParentID)
	}
	if parent.ParentID != nil {
		return nil, models.NewInvalidOperationError("Cannot reply to a reply; reply to the top-level comment instead")
	}
	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, orNotFound(err, "User", in.UserID)
	}

	reply := &models.Comment{
		Content:  content,
		UserID:   in.UserID,
		PostID:   parent.PostID,
		ParentID: &parent.ID,
	}
	err = s.uow.Do(ctx, func(r repository.Repos) error {
		if err := r.Comments.Create(ctx, reply); err != nil {
			return err
		}
		return s.notifier.ReplyCreated(ctx, r.Notifications, actor, parent, reply)
	})
	if err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, reply.ID)
}

// ListComments returns a post's top-level comments with replies attached.
func (s *CommentService) ListComments(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, orNotFound(err, "Post", postID)
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// ListReplies returns the direct replies of a comment, oldest first.
func (s *CommentService) ListReplies(ctx context.Context, parentID uuid.UUID) ([]*models.Comment, error) {
	if _, err := s.commentRepo.GetByID(ctx, parentID); err != nil {
		return nil, orNotFound(err, "Comment", parentID)
	}
	return s.commentRepo.ListReplies(ctx, parentID)
}

// UpdateComment edits a comment's content. Only the author may edit.
// is_edited flips to true only when the content actually changes and never
// resets; updated_at refreshes on every save regardless.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, orNotFound(err, "Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return nil, models.NewPermissionDeniedError("You can only edit your own comments")
	}

	content, err := validateContent(in.Content)
	if err != nil {
		return nil, err
	}

	if content != comment.Content {
		comment.IsEdited = true
	}
	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment and cascades to its direct replies and any
// notifications referencing them. Only the author may delete.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return orNotFound(err, "Comment", in.CommentID)
	}
	if comment.UserID != in.UserID {
		return models.NewPermissionDeniedError("You can only delete your own comments")
	}

	return s.uow.Do(ctx, func(r repository.Repos) error {
		return r.Comments.Delete(ctx, comment.ID)
	})
}
