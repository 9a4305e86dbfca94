// Package seed populates a development database with plausible campus data.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"campusfeed/internal/models"
	"campusfeed/internal/repository"

	"gorm.io/gorm"
)

var (
	departments = []string{"CS", "MATH", "PHYS", "BIO", "ECON", "ENG"}

	fullNames = []string{
		"Priya Natarajan", "Marcus Webb", "Elena Vasquez", "Tom Okafor",
		"Sofia Lindgren", "Daniel Kim", "Aisha Rahman", "Jake Morrison",
		"Mei Chen", "Omar Haddad", "Grace Nwosu", "Lucas Ferreira",
	}

	postTitles = []string{
		"Anyone else struggling with the data structures assignment?",
		"Study group for the thermodynamics exam this Friday",
		"Spring festival volunteers needed",
		"Best quiet spots on campus to study?",
		"Professor canceled tomorrow's lecture",
		"Selling my old calculus textbook",
		"Intramural soccer signups close Sunday",
		"Workshop on resume writing next week",
		"Is the library open during break?",
		"Lost a blue water bottle near the science building",
	}

	postContents = []string{
		"I've been stuck on problem 3 for two days. The recursion just doesn't click for me. Anyone want to compare approaches?",
		"We're meeting in the basement study rooms at 6pm. Bring your problem sets from weeks 4 through 7.",
		"The organizing committee needs about 20 more volunteers for setup and teardown. Free food for helpers.",
		"The third floor of the library gets loud in the afternoon. Looking for alternatives with decent wifi.",
		"Just got the email. Office hours are moved to Thursday instead.",
		"Barely used, no highlighting. Half the bookstore price.",
		"Teams of 8 to 12. No experience required, it's a casual league.",
		"The career center is running it twice, Tuesday and Thursday at noon.",
		"The website says reduced hours but doesn't list them anywhere I can find.",
		"If anyone picked it up, please comment. It has stickers on it.",
	}

	commentBodies = []string{
		"Same here, happy to meet up and work through it.",
		"Check the course forum, the TA posted a hint yesterday.",
		"I'll be there!",
		"Thanks for the heads up.",
		"DMed you.",
		"Can confirm, saw the notice this morning.",
	}

	emojis = []string{"👍", "🔥", "❤️", "😂", "🎉"}
)

// Options controls how much data the seeder creates.
type Options struct {
	Users    int
	Posts    int
	Comments int
	Clean    bool
}

// DefaultOptions returns a small but lively dataset.
func DefaultOptions() Options {
	return Options{Users: 12, Posts: 30, Comments: 80, Clean: true}
}

// Run populates the database. All writes go through the same repositories and
// services the server uses, so seeded counters stay consistent with their
// ledgers.
func Run(db *gorm.DB, opts Options) error {
	ctx := context.Background()

	if opts.Clean {
		for _, model := range []interface{}{
			&models.Notification{}, &models.Reaction{}, &models.Vote{},
			&models.Comment{}, &models.AuditLog{}, &models.Post{}, &models.User{},
		} {
			if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("cleaning: %w", err)
			}
		}
	}

	users, err := seedUsers(db, opts.Users)
	if err != nil {
		return err
	}
	posts, err := seedPosts(db, users, opts.Posts)
	if err != nil {
		return err
	}
	if err := seedComments(ctx, db, users, posts, opts.Comments); err != nil {
		return err
	}
	return seedEngagement(ctx, db, users, posts)
}

func seedUsers(db *gorm.DB, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := fullNames[i%len(fullNames)]
		role := models.RoleStudent
		if i == 0 {
			role = models.RoleAdmin
		} else if i%5 == 0 {
			role = models.RoleFaculty
		}
		user := &models.User{
			Email:      fmt.Sprintf("user%d@campus.edu", i+1),
			Username:   fmt.Sprintf("user%d", i+1),
			FullName:   name,
			Department: departments[i%len(departments)],
			Role:       role,
			IsActive:   true,
		}
		if err := db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("seeding users: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func seedPosts(db *gorm.DB, users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		post := &models.Post{
			Title:       postTitles[i%len(postTitles)],
			Content:     postContents[i%len(postContents)],
			Department:  author.Department,
			Type:        models.PostTypeDiscussion,
			IsAnonymous: rand.Intn(10) == 0,
			AuthorID:    &author.ID,
		}
		if err := db.Create(post).Error; err != nil {
			return nil, fmt.Errorf("seeding posts: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func seedComments(ctx context.Context, db *gorm.DB, users []*models.User, posts []*models.Post, n int) error {
	commentRepo := repository.NewCommentRepository(db)
	postRepo := repository.NewPostRepository(db)
	for i := 0; i < n; i++ {
		author := users[rand.Intn(len(users))]
		post := posts[rand.Intn(len(posts))]
		comment := &models.Comment{
			PostID:   post.ID,
			Content:  commentBodies[i%len(commentBodies)],
			AuthorID: &author.ID,
		}
		if err := commentRepo.Create(ctx, comment); err != nil {
			return fmt.Errorf("seeding comments: %w", err)
		}
		if err := postRepo.AdjustCommentsCount(ctx, post.ID, 1); err != nil {
			return fmt.Errorf("seeding comments: %w", err)
		}
	}
	return nil
}

func seedEngagement(ctx context.Context, db *gorm.DB, users []*models.User, posts []*models.Post) error {
	voteRepo := repository.NewVoteRepository(db)
	reactionRepo := repository.NewReactionRepository(db)

	for _, post := range posts {
		for _, user := range users {
			if rand.Intn(3) != 0 {
				continue
			}
			voteType := models.VoteUp
			if rand.Intn(5) == 0 {
				voteType = models.VoteDown
			}
			if _, err := voteRepo.CastVote(ctx, user.ID, models.PostTarget(post.ID), voteType); err != nil {
				return fmt.Errorf("seeding votes: %w", err)
			}
			if rand.Intn(4) == 0 {
				emoji := emojis[rand.Intn(len(emojis))]
				if _, err := reactionRepo.Toggle(ctx, user.ID, models.PostTarget(post.ID), emoji); err != nil {
					return fmt.Errorf("seeding reactions: %w", err)
				}
			}
		}
	}
	return nil
}
