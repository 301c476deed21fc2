package service

import (
	"context"
	"fmt"

	"codelab/internal/middleware"
	"codelab/internal/models"
	"codelab/internal/repository"
)

// Notifier derives notification rows from domain events. It is stateless and
// carries no policy beyond suppression of self-notifications; callers invoke
// it inside the same transaction as the triggering write so the mutation and
// its notification commit together.
type Notifier struct{}

// NewNotifier creates a new Notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) create(ctx context.Context, notifs repository.NotificationRepository, notification *models.Notification) error {
	// A legally long post title can push the message past the column size;
	// truncate rather than abort the triggering transaction.
	if runes := []rune(notification.Message); len(runes) > models.MaxNotificationMessageLen {
		notification.Message = string(runes[:models.MaxNotificationMessageLen])
	}
	if err := notifs.Create(ctx, notification); err != nil {
		return err
	}
	middleware.NotificationsCreated.WithLabelValues(string(notification.Type)).Inc()
	return nil
}

// LikeCreated records a like notification for the post author.
// No row is written when users like their own post.
func (n *Notifier) LikeCreated(ctx context.Context, notifs repository.NotificationRepository, liker *models.User, post *models.Post) error {
	if liker.ID == post.UserID {
		return nil
	}
	return n.create(ctx, notifs, &models.Notification{
		RecipientID: post.UserID,
		SenderID:    &liker.ID,
		Type:        models.NotificationTypeLike,
		PostID:      &post.ID,
		Message:     fmt.Sprintf("%s liked your post %q", liker.Username, post.Title),
	})
}

// CommentCreated records a comment notification for the post author.
// Only top-level comments notify here; replies go through ReplyCreated.
// No row is written when authors comment on their own post.
func (n *Notifier) CommentCreated(ctx context.Context, notifs repository.NotificationRepository, commenter *models.User, post *models.Post, comment *models.Comment) error {
	if comment.ParentID != nil || commenter.ID == post.UserID {
		return nil
	}
	return n.create(ctx, notifs, &models.Notification{
		RecipientID: post.UserID,
		SenderID:    &commenter.ID,
		Type:        models.NotificationTypeComment,
		PostID:      &post.ID,
		CommentID:   &comment.ID,
		Message:     fmt.Sprintf("%s commented on your post %q", commenter.Username, post.Title),
	})
}

// ReplyCreated records a reply notification for the parent comment's author.
// No row is written when users reply to their own comment.
func (n *Notifier) ReplyCreated(ctx context.Context, notifs repository.NotificationRepository, replier *models.User, parent *models.Comment, reply *models.Comment) error {
	if reply.ParentID == nil || replier.ID == parent.UserID {
		return nil
	}
	return n.create(ctx, notifs, &models.Notification{
		RecipientID: parent.UserID,
		SenderID:    &replier.ID,
		Type:        models.NotificationTypeReply,
		PostID:      &reply.PostID,
		CommentID:   &reply.ID,
		Message:     fmt.Sprintf("%s replied to your comment", replier.Username),
	})
}
