package handler

import (
	"github.com/gofiber/fiber/v2"

	"paperplane/internal/middleware"
)

// Routes groups the handlers mounted under /api.
type Routes struct {
	Auth       *AuthHandler
	Questions  *QuestionHandler
	Extraction *ExtractionHandler
	System     *SystemHandler
	// Tokens guards everything except login, the OIDC redirect flow and system endpoints.
	Tokens middleware.TokenValidator
}

// Register mounts the API on app.
func (r *Routes) Register(app fiber.Router) {
	api := app.Group("/api")
	protected := middleware.Protected(r.Tokens)
	ids := middleware.NewValidationMiddleware()

	api.Get("/health", r.System.Health)
	api.Get("/config", r.System.Config)

	auth := api.Group("/auth")
	auth.Post("/login", r.Auth.Login)
	auth.Post("/logout", protected, r.Auth.Logout)
	auth.Get("/me", protected, r.Auth.Me)
	auth.Get("/oidc/config", r.Auth.OIDCConfig)
	auth.Get("/oidc/login", r.Auth.OIDCLogin)
	auth.Get("/oidc/callback", r.Auth.OIDCCallback)
	auth.Get("/oidc/logout-url", r.Auth.LogoutURL)

	extract := api.Group("/extract", protected)
	extract.Post("/", r.Extraction.Extract)
	extract.Get("/types", r.Extraction.Types)

	questions := api.Group("/questions", protected)
	questions.Get("/", r.Questions.List)
	questions.Get("/filter-options", r.Questions.FilterOptions)
	questions.Get("/image-proxy", r.Questions.ImageProxy)
	questions.Post("/upload", r.Questions.Upload)
	questions.Post("/upload-batch", r.Questions.UploadBatch)
	questions.Post("/create-indexes", r.Questions.CreateIndexes)
	questions.Post("/delete-multiple", r.Questions.DeleteMultiple)
	questions.Put("/:id", ids.ValidateQuestionID(), r.Questions.Update)
	questions.Delete("/:id", ids.ValidateQuestionID(), r.Questions.Delete)
}
