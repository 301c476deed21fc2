package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCommentLen is the maximum comment/reply content length in characters.
const MaxCommentLen = 1000

// Comment represents a comment on a post. A comment with a parent is a reply;
// replies to replies are rejected at the service layer, the store only keeps
// the nullable parent reference.
type Comment struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content  string     `gorm:"size:1000;not null" json:"content"`
	UserID   uint       `gorm:"not null;index" json:"user_id"`
	PostID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"post_id"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	User     User       `gorm:"foreignKey:UserID" json:"user"`
	Post     Post       `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Replies  []Comment  `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	IsEdited bool       `gorm:"default:false" json:"is_edited"`
	// ReplyCount is not persisted; computed at query time
	ReplyCount int       `gorm:"->;-:migration" json:"reply_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsReply reports whether this comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}
