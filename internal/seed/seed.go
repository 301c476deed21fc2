package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"codelab/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data: users, posts, likes, comment
// threads and matching notifications.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	f := NewFactory(db)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("%d test users created", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		post, err := f.CreatePost(author)
		if err != nil {
			return fmt.Errorf("failed to create posts: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("%d posts created", len(posts))

	var likes, comments int
	for _, post := range posts {
		author := &models.User{ID: post.UserID}

		// a handful of likes per post, with dispatcher-shaped notifications
		for i := 0; i < r.Intn(6); i++ {
			liker := users[r.Intn(len(users))]
			if err := f.CreateLike(liker, post); err != nil {
				return fmt.Errorf("failed to create likes: %w", err)
			}
			likes++
			if liker.ID != post.UserID {
				recipient := findUser(users, author.ID)
				if err := f.CreateNotification(recipient, liker, models.NotificationTypeLike, post); err != nil {
					return fmt.Errorf("failed to create notifications: %w", err)
				}
			}
		}

		// a short comment thread on roughly half the posts
		if r.Intn(2) == 0 {
			commenter := users[r.Intn(len(users))]
			comment, err := f.CreateComment(commenter, post)
			if err != nil {
				return fmt.Errorf("failed to create comments: %w", err)
			}
			comments++

			if r.Intn(2) == 0 {
				replier := users[r.Intn(len(users))]
				if _, err := f.CreateReply(replier, comment); err != nil {
					return fmt.Errorf("failed to create replies: %w", err)
				}
				comments++
			}
		}
	}
	log.Printf("%d likes and %d comments created", likes, comments)

	log.Println("Database seeding completed successfully!")
	return nil
}

func findUser(users []*models.User, id uint) *models.User {
	for _, u := range users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, comments, likes, posts, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}
