package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campusfeed/internal/database"
	"campusfeed/internal/models"
	"campusfeed/internal/ratelimit"
	"campusfeed/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:svc_"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// testEnv wires the full service graph over one test database with realtime
// delivery disabled.
type testEnv struct {
	db         *gorm.DB
	limiter    *ratelimit.Limiter
	dispatcher *NotificationService
	engagement *EngagementService
	posts      *PostService
	comments   *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	limiter := ratelimit.New()
	dispatcher := NewNotificationService(db, notifRepo, userRepo, nil)

	return &testEnv{
		db:         db,
		limiter:    limiter,
		dispatcher: dispatcher,
		engagement: NewEngagementService(db, userRepo, postRepo, limiter, dispatcher),
		posts:      NewPostService(db, postRepo, auditRepo, nil),
		comments:   NewCommentService(db, commentRepo, postRepo, dispatcher),
	}
}

func (e *testEnv) seedUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	name := strings.SplitN(email, "@", 2)[0]
	user := &models.User{Email: email, Username: name, FullName: name, Role: role, IsActive: true}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) seedPost(t *testing.T, author *models.User) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:      "Quiet study spots?",
		Content:    "Looking for somewhere quieter than the union.",
		Department: "CS",
		AuthorID:   &author.ID,
	}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	return appErr.Code
}
