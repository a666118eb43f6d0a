// handlers/social_routes.go
package handlers

import (
	"memeverse/middleware"
	"memeverse/models"
	"memeverse/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSocialRoutes(app *fiber.App, socialService *services.SocialService) {
	app.Get("/memes", func(c *fiber.Ctx) error {
		memes, err := socialService.ListMemes(c.UserContext(), services.MemeFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Sort:     c.Query("sort", "fresh"),
			Limit:    c.QueryInt("limit", 20),
			Offset:   c.QueryInt("offset", 0),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(memes)
	})

	app.Post("/memes", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req services.CreateMemeInput
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, services.ErrInvalidInput.Wrap(err))
		}
		meme, err := socialService.CreateMeme(c.UserContext(), middleware.UserID(c), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(meme)
	})

	app.Get("/memes/:id", func(c *fiber.Ctx) error {
		meme, err := socialService.GetMeme(c.UserContext(), c.Params("id"), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(meme)
	})

	app.Delete("/memes/:id", middleware.RequireUser(), func(c *fiber.Ctx) error {
		if _, err := socialService.DeleteMeme(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"message": "Meme deleted successfully"})
	})

	app.Post("/votes", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			MemeID string          `json:"memeId" validate:"required"`
			Type   models.VoteType `json:"type" validate:"required,oneof=up down"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		res, err := socialService.Vote(c.UserContext(), middleware.UserID(c), req.MemeID, req.Type)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})

	app.Get("/comments", func(c *fiber.Ctx) error {
		memeID := c.Query("memeId")
		if memeID == "" {
			return respondError(c, services.ErrInvalidInput.With(map[string]any{"field": "memeId"}))
		}
		comments, err := socialService.ListComments(c.UserContext(), memeID, c.QueryInt("limit", 50), c.QueryInt("offset", 0))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(comments)
	})

	app.Post("/comments", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			MemeID  string `json:"memeId" validate:"required"`
			Content string `json:"content" validate:"required"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		comment, err := socialService.Comment(c.UserContext(), middleware.UserID(c), req.MemeID, req.Content)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})

	app.Get("/follow", func(c *fiber.Ctx) error {
		userID := c.Query("userId", middleware.UserID(c))
		if userID == "" {
			return respondError(c, services.ErrInvalidInput.With(map[string]any{"field": "userId"}))
		}
		stats, err := socialService.FollowStats(c.UserContext(), userID, middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(stats)
	})

	app.Post("/follow", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			TargetUserID string `json:"targetUserId"`
		}
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, services.ErrInvalidInput.Wrap(err))
		}
		following, err := socialService.ToggleFollow(c.UserContext(), middleware.UserID(c), req.TargetUserID)
		if err != nil {
			return respondError(c, err)
		}
		msg := "Unfollowed successfully"
		if following {
			msg = "Followed successfully"
		}
		return c.JSON(fiber.Map{"message": msg, "following": following})
	})

	app.Get("/topics", func(c *fiber.Ctx) error {
		topics, err := socialService.ListTopics(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(topics)
	})

	app.Post("/topics", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req services.TopicInput
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, services.ErrInvalidInput.Wrap(err))
		}
		topic, err := socialService.CreateTopic(c.UserContext(), req)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(topic)
	})

	app.Post("/topics/follow", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			TopicID string `json:"topicId" validate:"required"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		following, err := socialService.ToggleTopicFollow(c.UserContext(), middleware.UserID(c), req.TopicID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"following": following})
	})

	app.Get("/bookmarks", middleware.RequireUser(), func(c *fiber.Ctx) error {
		bookmarks, err := socialService.ListBookmarks(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(bookmarks)
	})

	app.Post("/bookmarks", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req struct {
			MemeID string `json:"memeId" validate:"required"`
		}
		if err := parseBody(c, &req); err != nil {
			return respondError(c, err)
		}
		bookmarked, err := socialService.ToggleBookmark(c.UserContext(), middleware.UserID(c), req.MemeID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"bookmarked": bookmarked})
	})
}
