package server

import (
	"github.com/gofiber/fiber/v2"

	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
)

func (s *Server) handleListNotifications(c *fiber.Ctx) error {
	limit, offset := pagination(c)

	views, err := s.notifs.List(c.UserContext(), middleware.UserID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": views})
}

func (s *Server) handleUnreadCount(c *fiber.Ctx) error {
	count, err := s.notifs.CountUnread(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"unread_count": count})
}

func (s *Server) handleMarkRead(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := s.notifs.MarkRead(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

func (s *Server) handleMarkAllRead(c *fiber.Ctx) error {
	if err := s.notifs.MarkAllRead(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

type announceRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (s *Server) handleAnnounce(c *fiber.Ctx) error {
	admin := c.Locals("currentUser").(*models.User)

	var req announceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	count, err := s.notifs.Announce(c.UserContext(), req.Title, req.Message, admin.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"recipients": count})
}
