// Package seed populates a fresh database with demo data by driving the
// real services, so the seeded tree has exactly the shapes the app writes.
package seed

import (
	"context"
	"fmt"

	"github.com/recruiterhub/backend/internal/app"
	"github.com/recruiterhub/backend/internal/auth"
	"github.com/recruiterhub/backend/internal/chat"
	"github.com/recruiterhub/backend/internal/engagement"
	"github.com/recruiterhub/backend/internal/identity"
	"github.com/recruiterhub/backend/internal/notification"
	"github.com/recruiterhub/backend/internal/profile"
	"github.com/recruiterhub/backend/internal/relationship"
)

// DemoData resets the nodes and credentials tables and populates demo
// users, follows, posts, likes, comments and one conversation.
//
// Behavior:
//  1. Clears existing data in `nodes` and `credentials`.
//  2. Registers 8 demo players (password "password").
//  3. Everyone follows player1; player1 follows back the first three.
//  4. player1 gets two posts; the followers like and comment on the first.
//  5. player1 and player2 exchange a short conversation.
func DemoData(ctx context.Context, appCtx *app.AppContext, jwtSecret string) error {
	// --- Fresh start ---
	if err := appCtx.DB.Exec("DELETE FROM nodes").Error; err != nil {
		return fmt.Errorf("failed to clear nodes: %w", err)
	}
	if err := appCtx.DB.Exec("DELETE FROM credentials").Error; err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	profiles := profile.NewService(appCtx)
	notifications := notification.NewService(appCtx, profiles)
	relationships := relationship.NewService(appCtx, notifications)
	posts := engagement.NewService(appCtx, notifications, relationships)
	conversations := chat.NewService(appCtx)
	authSvc := auth.NewService(jwtSecret, appCtx, profiles)

	// --- Demo players ---
	positions := []string{"P", "C", "SS", "CF", "1B", "3B", "2B", "RF"}
	players := make([]identity.Session, 0, len(positions))
	for i := 1; i <= len(positions); i++ {
		session, _, err := authSvc.Register(ctx, auth.RegisterRequest{
			User: profile.User{
				Email:        fmt.Sprintf("player%d@example.com", i),
				Username:     fmt.Sprintf("player%d", i),
				FirstName:    "Demo",
				LastName:     fmt.Sprintf("Player%d", i),
				Positions:    positions[i-1],
				HeightFeet:   5 + i%2,
				HeightInches: i,
				HighSchool:   "Central High",
				State:        "TX",
				Weight:       160 + i*5,
				Arm:          "R",
				Bats:         "R",
				GradYear:     2026,
				ProfileType:  "player",
				Title:        "player",
			},
			Password: "password",
		})
		if err != nil {
			return fmt.Errorf("failed to register player%d: %w", i, err)
		}
		players = append(players, session)
	}

	// --- Social graph: everyone follows player1 ---
	for _, p := range players[1:] {
		if err := relationships.ToggleFollow(ctx, p, players[0].Email); err != nil {
			return fmt.Errorf("failed to follow: %w", err)
		}
	}
	for _, p := range players[1:4] {
		if err := relationships.ToggleFollow(ctx, players[0], p.Email); err != nil {
			return fmt.Errorf("failed to follow back: %w", err)
		}
	}

	// --- Posts for player1 ---
	demoPosts := []engagement.NewPostInput{
		{URL: "https://cdn.example.com/v/p1-highlight.mov", Thumbnail: "https://cdn.example.com/t/p1-highlight.jpg", Caption: "Friday night highlights", Type: engagement.PostTypeVideo},
		{URL: "https://cdn.example.com/i/p1-swing.jpg", Thumbnail: "https://cdn.example.com/i/p1-swing.jpg", Caption: "Working on the swing", Type: engagement.PostTypePhoto},
	}
	for _, p := range demoPosts {
		if err := posts.NewPost(ctx, players[0], p); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
	}

	// --- Likes and comments on the first post ---
	for _, p := range players[1:5] {
		if err := posts.ToggleLike(ctx, p, players[0].Email, 0); err != nil {
			return fmt.Errorf("failed to like: %w", err)
		}
	}
	if err := posts.AddComment(ctx, players[1], players[0].Email, 0, "Great outing!"); err != nil {
		return fmt.Errorf("failed to comment: %w", err)
	}
	if err := posts.AddComment(ctx, players[2], players[0].Email, 0, "That breaking ball is nasty"); err != nil {
		return fmt.Errorf("failed to comment: %w", err)
	}

	// --- One conversation between player1 and player2 ---
	convID, err := conversations.CreateConversation(ctx, players[0], players[1].Email, players[1].Name, chat.Message{
		Type:    chat.KindText,
		Content: "Hey, saw your game Friday. Nice work.",
	})
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	if err := conversations.SendMessage(ctx, players[1], convID, players[0].Email, players[0].Name, chat.Message{
		Type:    chat.KindText,
		Content: "Thanks! Appreciate it.",
	}); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	appCtx.Logger.Info("seeding completed", "users", len(players), "posts", len(demoPosts))
	return nil
}
