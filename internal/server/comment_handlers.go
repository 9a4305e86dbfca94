package server

import (
	"github.com/gofiber/fiber/v2"

	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/service"
)

type createCommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

func (s *Server) handleCreateComment(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.comments.Create(c.UserContext(), service.CreateCommentInput{
		PostID:   postID,
		Content:  req.Content,
		ParentID: req.ParentID,
	}, user)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (s *Server) handleListComments(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	comments, err := s.comments.List(c.UserContext(), postID, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

func (s *Server) handleDeleteComment(c *fiber.Ctx) error {
	commentID, err := paramID(c, "commentId")
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.comments.Delete(c.UserContext(), commentID, user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
