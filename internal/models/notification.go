package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxNotificationMessageLen matches the message column size. The dispatcher
// truncates longer messages instead of failing the triggering write.
const MaxNotificationMessageLen = 255

// NotificationType classifies the domain event that produced a notification.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeReply   NotificationType = "reply"
	NotificationTypeMention NotificationType = "mention"
	NotificationTypeFollow  NotificationType = "follow"
)

// Notification is a persisted record of a domain event addressed to a user.
// Rows are created only by the dispatcher, never directly by clients.
type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uint             `gorm:"not null;index:idx_recipient_read" json:"recipient_id"`
	Recipient   User             `gorm:"foreignKey:RecipientID" json:"-"`
	SenderID    *uint            `gorm:"index" json:"sender_id,omitempty"`
	Sender      *User            `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type        NotificationType `gorm:"size:20;not null" json:"type"`
	PostID      *uuid.UUID       `gorm:"type:uuid;index" json:"post_id,omitempty"`
	CommentID   *uuid.UUID       `gorm:"type:uuid;index" json:"comment_id,omitempty"`
	Message     string           `gorm:"size:255" json:"message"`
	IsRead      bool             `gorm:"default:false;index:idx_recipient_read" json:"is_read"`
	CreatedAt   time.Time        `gorm:"index" json:"created_at"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
