package server

import (
	"codelab/internal/models"
	"codelab/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description Create a new post owned by the authenticated user
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,content=string,image_url=string} true "Post payload"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:   currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description List posts with pagination and sort order (new, top, discussed)
// @Tags posts
// @Produce json
// @Param sort query string false "Sort order" Enums(new, top, discussed)
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.Context(), service.ListPostsInput{
		Limit:         p.Limit,
		Offset:        p.Offset,
		Sort:          c.Query("sort"),
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetTrendingPosts handles GET /api/posts/trending
// @Summary Trending posts
// @Description Posts created in the last 24 hours, most liked first
// @Tags posts
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Router /posts/trending [get]
func (s *Server) GetTrendingPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.Trending(c.Context(), p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetPopularPosts handles GET /api/posts/popular
// @Summary Popular posts
// @Description All-time posts ordered by likes, then comments, then recency
// @Tags posts
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Router /posts/popular [get]
func (s *Server) GetPopularPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.Popular(c.Context(), p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// Search handles GET /api/posts/search
// @Summary Search
// @Description Case-insensitive substring search over posts, users and comments
// @Tags posts
// @Produce json
// @Param q query string true "Search query (min 2 characters)"
// @Param scope query string false "Search scope" Enums(all, posts, users, comments)
// @Success 200 {object} service.SearchResults
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	results, err := s.searchService.Global(c.Context(), c.Query("q"), c.Query("scope"), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(results)
}

// SearchAdvanced handles GET /api/posts/search/advanced
// @Summary Advanced post search
// @Description Post-only search with author, minimum-likes and image filters
// @Tags posts
// @Produce json
// @Param q query string true "Search query (min 2 characters, shorter matches nothing)"
// @Param author query int false "Author user ID"
// @Param min_likes query int false "Minimum like count"
// @Param has_image query bool false "Only posts with an image"
// @Param order_by query string false "Order" Enums(-created_at, created_at, -like_count, -comment_count)
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Router /posts/search/advanced [get]
func (s *Server) SearchAdvanced(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.searchService.AdvancedPosts(c.Context(), service.AdvancedPostsInput{
		Query:         c.Query("q"),
		AuthorID:      uint(c.QueryInt("author", 0)),
		MinLikes:      c.QueryInt("min_likes", 0),
		HasImage:      c.Query("has_image") == "true",
		OrderBy:       c.Query("order_by"),
		Limit:         p.Limit,
		Offset:        p.Offset,
		CurrentUserID: currentUserID(c),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// SearchHashtag handles GET /api/posts/search/hashtags
// @Summary Hashtag search
// @Description Posts mentioning #tag, newest first
// @Tags posts
// @Produce json
// @Param tag query string true "Hashtag without the # prefix"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/search/hashtags [get]
func (s *Server) SearchHashtag(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.searchService.Hashtag(c.Context(), c.Query("tag"), p.Limit, p.Offset, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(posts)
}

// GetSuggestions handles GET /api/posts/suggestions
// @Summary Search suggestions
// @Description Autocomplete candidates from post titles and usernames
// @Tags posts
// @Produce json
// @Param q query string true "Prefix (min 2 characters, shorter yields an empty list)"
// @Success 200 {object} object{suggestions=[]string}
// @Router /posts/suggestions [get]
func (s *Server) GetSuggestions(c *fiber.Ctx) error {
	suggestions, err := s.searchService.Suggestions(c.Context(), c.Query("q"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": suggestions})
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Description Get one post with its counts and the caller's like state
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Update post
// @Description Partially update a post owned by the authenticated user
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body object{title=string,content=string,image_url=string} true "Fields to update"
// @Success 200 {object} models.Post
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	var req struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:   currentUserID(c),
		PostID:   id,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Description Delete a post and everything attached to it
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
// @Summary Like post
// @Description Record a like; returns 201 on a fresh like, 200 on a duplicate
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Success 201 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [post]
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	post, created, err := s.postService.LikePost(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(post)
}

// UnlikePost handles DELETE /api/posts/:id/like
// @Summary Unlike post
// @Description Remove the caller's like from a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/like [delete]
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	post, err := s.postService.UnlikePost(c.Context(), currentUserID(c), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// GetPostLikes handles GET /api/posts/:id/likes
// @Summary List likes
// @Description List the likes on a post with the live count
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} service.PostLikes
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/likes [get]
func (s *Server) GetPostLikes(c *fiber.Ctx) error {
	id, err := s.parseUUID(c, "id", "post ID")
	if err != nil {
		return nil
	}

	likes, err := s.postService.GetLikes(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(likes)
}
