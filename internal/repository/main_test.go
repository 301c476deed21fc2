package repository

import (
	"fmt"
	"os"
	"testing"
	"time"

	"codelab/internal/database"
	"codelab/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// setupMockDB builds a GORM handle over sqlmock for tests asserting SQL shape.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

// setupTestDB opens a fresh in-memory database with the full schema for tests
// that exercise real query behavior. Each call gets an isolated database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:   title,
		Content: "content of " + title,
		UserID:  author.ID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, author *models.User, post *models.Post, parent *models.Comment, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Content: content,
		UserID:  author.ID,
		PostID:  post.ID,
	}
	if parent != nil {
		comment.ParentID = &parent.ID
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

func seedLike(t *testing.T, db *gorm.DB, user *models.User, post *models.Post) {
	t.Helper()
	require.NoError(t, db.Create(&models.Like{UserID: user.ID, PostID: post.ID}).Error)
}

// backdate shifts a post's creation time so ordering and window tests have
// deterministic timelines.
func backdate(t *testing.T, db *gorm.DB, post *models.Post, by time.Duration) {
	t.Helper()
	at := time.Now().Add(by)
	require.NoError(t, db.Model(post).UpdateColumn("created_at", at).Error)
	post.CreatedAt = at
}

func seedNotification(t *testing.T, db *gorm.DB, recipient, sender *models.User, typ models.NotificationType, post *models.Post, read bool) *models.Notification {
	t.Helper()
	n := &models.Notification{
		RecipientID: recipient.ID,
		Type:        typ,
		Message:     "test notification",
		IsRead:      read,
	}
	if sender != nil {
		n.SenderID = &sender.ID
	}
	if post != nil {
		n.PostID = &post.ID
	}
	require.NoError(t, db.Create(n).Error)
	return n
}
