package server

import (
	"github.com/gofiber/fiber/v2"

	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/ratelimit"
)

type castVoteRequest struct {
	PostID    *uint `json:"post_id"`
	CommentID *uint `json:"comment_id"`
	VoteType  int   `json:"vote_type"`
}

func (s *Server) handleCastVote(c *fiber.Ctx) error {
	var req castVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	target, err := models.ParseTarget(req.PostID, req.CommentID)
	if err != nil {
		return respondError(c, err)
	}

	result, err := s.engagement.CastVote(c.UserContext(), middleware.UserID(c), target, req.VoteType)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

type toggleReactionRequest struct {
	PostID    *uint  `json:"post_id"`
	CommentID *uint  `json:"comment_id"`
	Emoji     string `json:"emoji"`
}

func (s *Server) handleToggleReaction(c *fiber.Ctx) error {
	var req toggleReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	target, err := models.ParseTarget(req.PostID, req.CommentID)
	if err != nil {
		return respondError(c, err)
	}

	reaction, err := s.engagement.ToggleReaction(c.UserContext(), middleware.UserID(c), target, req.Emoji)
	if err != nil {
		return respondError(c, err)
	}
	if reaction == nil {
		return c.JSON(fiber.Map{"status": "removed"})
	}
	return c.JSON(fiber.Map{"status": "added", "reaction": reaction})
}

func (s *Server) handleReactionCounts(c *fiber.Ctx) error {
	var postID, commentID *uint
	if v := c.QueryInt("post_id", 0); v > 0 {
		id := uint(v)
		postID = &id
	}
	if v := c.QueryInt("comment_id", 0); v > 0 {
		id := uint(v)
		commentID = &id
	}

	target, err := models.ParseTarget(postID, commentID)
	if err != nil {
		return respondError(c, err)
	}

	counts, err := s.engagement.ReactionCounts(c.UserContext(), target, middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reactions": counts})
}

// handleSharePost is open to anonymous callers; authenticated users get a
// per-user share budget, everyone else shares one pooled anonymous budget.
func (s *Server) handleSharePost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	actorKey := ratelimit.AnonymousActor
	if uid := middleware.UserID(c); uid != 0 {
		actorKey = ratelimit.UserActor(uid)
	}

	count, err := s.engagement.IncrementShare(c.UserContext(), postID, actorKey)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"share_count": count})
}

func (s *Server) handlePinPost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	admin := c.Locals("currentUser").(*models.User)

	duration := c.Query("duration", models.PinDuration24h)
	post, err := s.posts.Pin(c.UserContext(), postID, duration, admin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (s *Server) handleUnpinPost(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	admin := c.Locals("currentUser").(*models.User)

	post, err := s.posts.Unpin(c.UserContext(), postID, admin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (s *Server) handlePostAudit(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entries, err := s.posts.AuditTrail(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"audit_log": entries})
}
