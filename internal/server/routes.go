package server

import (
	"time"

	"github.com/funnelforge/api/internal/auth"
	"github.com/funnelforge/api/internal/deploy"
	"github.com/funnelforge/api/internal/funnel"
	"github.com/funnelforge/api/internal/media"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS, PATCH",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "FunnelForge API is running",
		})
	})

	// ==========================================
	// AUTH ROUTES (No authentication required)
	// ==========================================
	authGroup := app.Group("/auth")
	app.Use("/auth", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 1 * time.Minute,
	}))
	authGroup.Post("/register", auth.RegisterHandler)
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), auth.LoginHandler)
	authGroup.Get("/google/login", auth.GoogleLogin)
	authGroup.Get("/google/callback", auth.GoogleCallback)
	authGroup.Post("/forgot-password", auth.ForgotPasswordHandler)
	authGroup.Post("/reset-password", auth.ResetPasswordHandler)
	authGroup.Post("/refresh", limiter.New(limiter.Config{
		Max:        3,
		Expiration: 5 * time.Minute,
	}), auth.RefreshHandler)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)
	authGroup.Get("/me", auth.JWTProtected(), auth.MeHandler)

	// ==========================================
	// FUNNEL MANAGEMENT (Owner scoped)
	// ==========================================
	funnelGroup := app.Group("/funnels")
	funnelGroup.Use(auth.JWTProtected())
	funnelGroup.Get("/", funnel.ListFunnelsHandler)
	funnelGroup.Post("/", funnel.CreateFunnelHandler)
	funnelGroup.Get("/slug-available", funnel.SlugAvailableHandler)
	funnelGroup.Get("/:id", funnel.GetFunnelHandler)
	funnelGroup.Put("/:id", funnel.UpdateFunnelHandler)
	funnelGroup.Delete("/:id", funnel.DeleteFunnelHandler)
	funnelGroup.Get("/:id/stats", funnel.GetStatsHandler)
	funnelGroup.Get("/:id/preview", funnel.PreviewHandler)
	funnelGroup.Get("/:id/submissions", funnel.ListSubmissionsHandler)

	// Element operations
	funnelGroup.Post("/:id/elements", funnel.AddElementHandler)
	funnelGroup.Post("/:id/elements/:element_id/duplicate", funnel.DuplicateElementHandler)
	funnelGroup.Delete("/:id/elements/:element_id", funnel.DeleteElementHandler)
	funnelGroup.Post("/:id/elements/:element_id/move", funnel.MoveElementHandler)
	funnelGroup.Post("/:id/elements/reorder", funnel.ReorderElementsHandler)
	funnelGroup.Put("/:id/elements/:element_id/content", funnel.UpdateElementContentHandler)

	// Publishing
	funnelGroup.Post("/:id/publish", deploy.DeployHandler)
	funnelGroup.Post("/:id/unpublish", deploy.UnpublishHandler)
	funnelGroup.Get("/:id/deployment", deploy.LatestDeploymentHandler)
	funnelGroup.Get("/:id/versions", deploy.ListVersionsHandler)

	// ==========================================
	// MEDIA LIBRARY
	// ==========================================
	mediaGroup := app.Group("/media")
	mediaGroup.Use(auth.JWTProtected())
	mediaGroup.Post("/", media.UploadMediaHandler)
	mediaGroup.Get("/", media.ListMediaHandler)
	mediaGroup.Put("/:id", media.UpdateMediaHandler)
	mediaGroup.Delete("/:id", media.DeleteMediaHandler)

	// ==========================================
	// PUBLIC PAGES (No authentication)
	// ==========================================
	app.Get("/p/:slug", funnel.PublicPageHandler)
	app.Post("/p/:slug/submit", limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}), funnel.SubmitFormHandler)
}
