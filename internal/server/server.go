// Package server wires the HTTP surface: routing, middleware, and handlers.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"campusfeed/internal/config"
	"campusfeed/internal/middleware"
	"campusfeed/internal/models"
	"campusfeed/internal/notifications"
	"campusfeed/internal/ratelimit"
	"campusfeed/internal/repository"
	"campusfeed/internal/service"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	cfg *config.Config
	db  *gorm.DB
	hub *notifications.Hub

	users repository.UserRepository

	posts      *service.PostService
	comments   *service.CommentService
	engagement *service.EngagementService
	notifs     *service.NotificationService
}

// NewServer builds the repository and service graph on top of the shared
// database handle, hub, and publisher.
func NewServer(cfg *config.Config, db *gorm.DB, hub *notifications.Hub, publisher *notifications.Publisher) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	limiter := ratelimit.New()
	dispatcher := service.NewNotificationService(db, notifRepo, userRepo, publisher)

	return &Server{
		cfg:        cfg,
		db:         db,
		hub:        hub,
		users:      userRepo,
		posts:      service.NewPostService(db, postRepo, auditRepo, publisher),
		comments:   service.NewCommentService(db, commentRepo, postRepo, dispatcher),
		engagement: service.NewEngagementService(db, userRepo, postRepo, limiter, dispatcher),
		notifs:     dispatcher,
	}
}

// SetupMiddleware registers the global middleware stack.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: s.cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.RequestLogger())
}

// SetupRoutes registers all API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.handleHealth)

	api := app.Group("/api")

	api.Post("/votes", middleware.AuthRequired, s.handleCastVote)

	api.Post("/reactions", middleware.AuthRequired, s.handleToggleReaction)
	api.Get("/reactions", middleware.AuthOptional, s.handleReactionCounts)

	posts := api.Group("/posts")
	posts.Post("/", middleware.AuthRequired, s.handleCreatePost)
	posts.Get("/", middleware.AuthOptional, s.handleListPosts)
	posts.Get("/:id", middleware.AuthOptional, s.handleGetPost)
	posts.Delete("/:id", middleware.AuthRequired, s.handleDeletePost)
	posts.Patch("/:id/share", middleware.AuthOptional, s.handleSharePost)
	posts.Put("/:id/pin", middleware.AuthRequired, s.adminRequired, s.handlePinPost)
	posts.Put("/:id/unpin", middleware.AuthRequired, s.adminRequired, s.handleUnpinPost)
	posts.Get("/:id/audit", middleware.AuthRequired, s.adminRequired, s.handlePostAudit)

	posts.Post("/:id/comments", middleware.AuthRequired, s.handleCreateComment)
	posts.Get("/:id/comments", middleware.AuthOptional, s.handleListComments)
	posts.Delete("/:id/comments/:commentId", middleware.AuthRequired, s.handleDeleteComment)

	notifs := api.Group("/notifications", middleware.AuthRequired)
	notifs.Get("/", s.handleListNotifications)
	notifs.Get("/unread-count", s.handleUnreadCount)
	notifs.Put("/read-all", s.handleMarkAllRead)
	notifs.Put("/:id/read", s.handleMarkRead)
	notifs.Post("/announcement", s.adminRequired, s.handleAnnounce)

	s.setupWebsocket(app)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"connections": s.hub.ConnectionCount(),
	})
}

// currentUser loads the authenticated user record. Handlers behind
// AuthRequired call this; a token naming a deleted user reads as unauthorized.
func (s *Server) currentUser(c *fiber.Ctx) (*models.User, error) {
	uid := middleware.UserID(c)
	if uid == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	user, err := s.users.GetByID(c.UserContext(), uid)
	if err != nil {
		if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
			return nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, err
	}
	return user, nil
}

// viewer resolves the optional authenticated user on read paths, nil for
// anonymous requests.
func (s *Server) viewer(c *fiber.Ctx) *models.User {
	uid := middleware.UserID(c)
	if uid == 0 {
		return nil
	}
	user, err := s.users.GetByID(c.UserContext(), uid)
	if err != nil {
		return nil
	}
	return user
}

// adminRequired gates admin-only routes. Runs after AuthRequired.
func (s *Server) adminRequired(c *fiber.Ctx) error {
	user, err := s.currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	if !user.IsAdmin() {
		return respondError(c, models.NewForbiddenError("Admin access required"))
	}
	c.Locals("currentUser", user)
	return c.Next()
}
