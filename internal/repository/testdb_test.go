package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campusfeed/internal/database"
	"campusfeed/internal/models"
)

// newTestDB opens an isolated in-memory SQLite database named after the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
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

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	name := strings.SplitN(email, "@", 2)[0]
	user := &models.User{
		Email:    email,
		Username: name,
		FullName: name,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, author *models.User) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:      "Library hours over finals week",
		Content:    "Does anyone know if the library stays open late?",
		Department: "CS",
		AuthorID:   &author.ID,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:   post.ID,
		Content:  "Open until 2am starting Monday.",
		AuthorID: &author.ID,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
