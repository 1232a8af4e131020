package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lingualabs/lingua-api/internal/api"
	apiMiddleware "github.com/lingualabs/lingua-api/internal/api/middleware"
	"github.com/lingualabs/lingua-api/internal/api/shared"
)

// setupRouter configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	conversationHandler := api.NewConversationHandler(
		app.conversationService,
		app.config.Upload.MaxBytes,
		app.logger,
	)
	progressHandler := api.NewProgressHandler(app.progressService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Conversation endpoints
			r.Post("/conversations", conversationHandler.CreateConversation)
			r.Get("/conversations", conversationHandler.ListConversations)
			r.Get("/conversations/{id}", conversationHandler.GetConversation)
			r.Delete("/conversations/{id}", conversationHandler.DeleteConversation)
			r.Post("/conversations/{id}/analyze", conversationHandler.AnalyzeConversation)
			r.Get("/conversations/{id}/analysis", conversationHandler.GetEvaluation)
			r.Post("/conversations/{id}/audio", conversationHandler.UploadAudio)

			// Progress endpoints
			r.Get("/users/{user_id}/progress", progressHandler.GetProgress)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		analyzer := "heuristic"
		model := ""
		if app.config.LLM.Enabled {
			analyzer = "llm"
			model = app.config.LLM.ModelName
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
			"status":   "ok",
			"analyzer": analyzer,
			"model":    model,
		})
	})

	return r
}
