// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"codelab/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the plaintext password every seeded user gets.
const DefaultPassword = "Password123!demo"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand

	// bcrypt of DefaultPassword, computed once since hashing dominates seed time
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	return &Factory{
		db:           db,
		r:            rand.New(rand.NewSource(time.Now().UnixNano())),
		passwordHash: string(hash),
	}
}

// pastTime returns a timestamp spread over the last maxDays days.
func (f *Factory) pastTime(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.r.Intn(maxDays))*24*time.Hour +
		time.Duration(f.r.Intn(24))*time.Hour +
		time.Duration(f.r.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  f.passwordHash,
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Bio:       gofakeit.Sentence(10),
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		IsActive:  true,
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample post for the given author.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
		ImageURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		UserID:    user.ID,
		CreatedAt: f.pastTime(90),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a top-level comment by user on post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   gofakeit.Sentence(f.r.Intn(15) + 3),
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: f.pastTime(30),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateReply persists a reply by user under the given top-level comment.
func (f *Factory) CreateReply(user *models.User, parent *models.Comment) (*models.Comment, error) {
	reply := &models.Comment{
		Content:   gofakeit.Sentence(f.r.Intn(10) + 3),
		UserID:    user.ID,
		PostID:    parent.PostID,
		ParentID:  &parent.ID,
		CreatedAt: f.pastTime(14),
	}
	if err := f.db.Create(reply).Error; err != nil {
		return nil, err
	}
	return reply, nil
}

// CreateLike records a like by user on post. Duplicate pairs are ignored, so
// random seeding never trips the unique index.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	return f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
		DoNothing: true,
	}).Create(like).Error
}

// CreateNotification persists a notification row mirroring what the
// dispatcher would write for the given interaction.
func (f *Factory) CreateNotification(recipient, sender *models.User, typ models.NotificationType, post *models.Post) error {
	if recipient == nil || sender == nil || recipient.ID == sender.ID {
		return nil
	}
	var message string
	switch typ {
	case models.NotificationTypeLike:
		message = fmt.Sprintf("%s liked your post %q", sender.Username, post.Title)
	case models.NotificationTypeComment:
		message = fmt.Sprintf("%s commented on your post %q", sender.Username, post.Title)
	default:
		message = fmt.Sprintf("%s replied to your comment", sender.Username)
	}
	n := &models.Notification{
		RecipientID: recipient.ID,
		SenderID:    &sender.ID,
		Type:        typ,
		PostID:      &post.ID,
		Message:     message,
	}
	return f.db.Create(n).Error
}
