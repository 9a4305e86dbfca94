package server

import (
	"github.com/gofiber/fiber/v2"

	"campusfeed/internal/models"
	"campusfeed/internal/service"
)

type createPostRequest struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Department  string `json:"department"`
	Tags        string `json:"tags"`
	Type        string `json:"type"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func (s *Server) handleCreatePost(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.posts.Create(c.UserContext(), service.CreatePostInput{
		AuthorID:    user.ID,
		Title:       req.Title,
		Content:     req.Content,
		Department:  req.Department,
		Tags:        req.Tags,
		Type:        req.Type,
		IsAnonymous: req.IsAnonymous,
	}, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (s *Server) handleListPosts(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	posts, err := s.posts.List(c.UserContext(), service.ListPostsInput{
		Department: c.Query("department"),
		Tags:       c.Query("tags"),
		Limit:      limit,
		Offset:     offset,
		Viewer:     s.viewer(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts, "limit": limit, "offset": offset})
}

func (s *Server) handleGetPost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.posts.Get(c.UserContext(), id, s.viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (s *Server) handleDeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.posts.Delete(c.UserContext(), id, user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
