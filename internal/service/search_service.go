package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"codelab/internal/middleware"
	"codelab/internal/models"
	"codelab/internal/repository"
)

// Search scopes accepted by Global.
const (
	SearchScopeAll      = "all"
	SearchScopePosts    = "posts"
	SearchScopeUsers    = "users"
	SearchScopeComments = "comments"
)

const (
	minQueryLen          = 2
	searchResultCap      = 10
	suggestionsPerSource = 5
	suggestionsCap       = 10
)

// SearchService assembles cross-entity search results and suggestions.
type SearchService struct {
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
}

// SearchSection holds one entity's slice of a global search response.
type SearchSection[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

// SearchResults is the global search response.
type SearchResults struct {
	Query    string                          `json:"query"`
	Total    int                             `json:"total_results"`
	Posts    *SearchSection[*models.Post]    `json:"posts,omitempty"`
	Users    *SearchSection[*models.User]    `json:"users,omitempty"`
	Comments *SearchSection[*models.Comment] `json:"comments,omitempty"`
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
) *SearchService {
	return &SearchService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
	}
}

// Global runs a case-insensitive substring search over the requested scope.
// Queries shorter than two characters are rejected. Each section reports the
// full match count even though results are capped at ten.
func (s *SearchService) Global(ctx context.Context, query, scope string, currentUserID uint) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return nil, models.NewValidationError("Search query must be at least 2 characters")
	}
	if scope == "" {
		scope = SearchScopeAll
	}
	middleware.SearchQueries.WithLabelValues(scope).Inc()

	results := &SearchResults{Query: query}

	if scope == SearchScopeAll || scope == SearchScopePosts {
		posts, err := s.postRepo.Search(ctx, query, searchResultCap, 0, currentUserID)
		if err != nil {
			return nil, err
		}
		count, err := s.postRepo.CountSearch(ctx, query)
		if err != nil {
			return nil, err
		}
		results.Posts = &SearchSection[*models.Post]{Count: int(count), Results: posts}
		results.Total += int(count)
	}

	if scope == SearchScopeAll || scope == SearchScopeUsers {
		users, err := s.userRepo.Search(ctx, query, searchResultCap)
		if err != nil {
			return nil, err
		}
		count, err := s.userRepo.CountSearch(ctx, query)
		if err != nil {
			return nil, err
		}
		results.Users = &SearchSection[*models.User]{Count: int(count), Results: users}
		results.Total += int(count)
	}

	if scope == SearchScopeAll || scope == SearchScopeComments {
		comments, err := s.commentRepo.Search(ctx, query, searchResultCap)
		if err != nil {
			return nil, err
		}
		count, err := s.commentRepo.CountSearch(ctx, query)
		if err != nil {
			return nil, err
		}
		results.Comments = &SearchSection[*models.Comment]{Count: int(count), Results: comments}
		results.Total += int(count)
	}

	return results, nil
}

// AdvancedPostsInput narrows the post-only search surface.
type AdvancedPostsInput struct {
	Query         string
	AuthorID      uint
	MinLikes      int
	HasImage      bool
	OrderBy       string
	Limit         int
	Offset        int
	CurrentUserID uint
}

// AdvancedPosts searches posts only, with author, minimum-likes and
// has-image filters. A query shorter than two characters matches nothing
// rather than failing.
func (s *SearchService) AdvancedPosts(ctx context.Context, in AdvancedPostsInput) ([]*models.Post, error) {
	query := strings.TrimSpace(in.Query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return []*models.Post{}, nil
	}
	middleware.SearchQueries.WithLabelValues("advanced").Inc()

	return s.postRepo.SearchAdvanced(ctx, query, repository.PostSearchFilters{
		AuthorID: in.AuthorID,
		MinLikes: in.MinLikes,
		HasImage: in.HasImage,
		OrderBy:  in.OrderBy,
	}, in.Limit, in.Offset, in.CurrentUserID)
}

// Hashtag returns posts mentioning #tag, newest first. The tag is matched
// case-insensitively; a leading # in the input is tolerated.
func (s *SearchService) Hashtag(ctx context.Context, tag string, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, models.NewValidationError("Tag is required")
	}
	middleware.SearchQueries.WithLabelValues("hashtag").Inc()

	return s.postRepo.SearchByHashtag(ctx, tag, limit, offset, currentUserID)
}

// Suggestions returns autocomplete candidates for the prefix: post titles and
// @usernames, case-insensitive, deduplicated, capped at ten. Prefixes shorter
// than two characters yield an empty list rather than an error.
func (s *SearchService) Suggestions(ctx context.Context, prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if utf8.RuneCountInString(prefix) < minQueryLen {
		return []string{}, nil
	}

	titles, err := s.postRepo.TitleSuggestions(ctx, prefix, suggestionsPerSource)
	if err != nil {
		return nil, err
	}
	usernames, err := s.userRepo.UsernameSuggestions(ctx, prefix, suggestionsPerSource)
	if err != nil {
		return nil, err
	}

	suggestions := make([]string, 0, len(titles)+len(usernames))
	seen := make(map[string]struct{}, len(titles)+len(usernames))
	for _, title := range titles {
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		suggestions = append(suggestions, title)
	}
	for _, username := range usernames {
		handle := "@" + username
		if _, dup := seen[handle]; dup {
			continue
		}
		seen[handle] = struct{}{}
		suggestions = append(suggestions, handle)
	}

	if len(suggestions) > suggestionsCap {
		suggestions = suggestions[:suggestionsCap]
	}
	return suggestions, nil
}
