package seed

import (
	"fmt"
	"os"

	"codelab/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Preset is a curated set of demo accounts and posts loaded from YAML.
// Presets run after (or instead of) random seeding so demos always contain
// known logins and recognizable content.
type Preset struct {
	Users []PresetUser `yaml:"users"`
	Posts []PresetPost `yaml:"posts"`
}

type PresetUser struct {
	Username  string `yaml:"username"`
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Bio       string `yaml:"bio"`
}

type PresetPost struct {
	Author  string `yaml:"author"` // username of a preset user
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// LoadPreset parses a preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}
	return &p, nil
}

// Apply persists the preset's users and posts. Preset users share the
// factory's default password so demo logins are predictable.
func (p *Preset) Apply(db *gorm.DB) error {
	f := NewFactory(db)

	byUsername := make(map[string]*models.User, len(p.Users))
	for _, pu := range p.Users {
		pu := pu
		user, err := f.CreateUser(func(u *models.User) {
			u.Username = pu.Username
			u.Email = pu.Email
			u.FirstName = pu.FirstName
			u.LastName = pu.LastName
			u.Bio = pu.Bio
		})
		if err != nil {
			return fmt.Errorf("preset user %q: %w", pu.Username, err)
		}
		byUsername[user.Username] = user
	}

	for _, pp := range p.Posts {
		author, ok := byUsername[pp.Author]
		if !ok {
			return fmt.Errorf("preset post %q references unknown author %q", pp.Title, pp.Author)
		}
		pp := pp
		if _, err := f.CreatePost(author, func(post *models.Post) {
			post.Title = pp.Title
			post.Content = pp.Content
			post.ImageURL = ""
		}); err != nil {
			return fmt.Errorf("preset post %q: %w", pp.Title, err)
		}
	}

	return nil
}
