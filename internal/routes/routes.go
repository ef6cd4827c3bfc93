package routes

import (
	"net/http"

	"github.com/alnotes/alnotes/internal/app"
	"github.com/alnotes/alnotes/internal/handler"
	"github.com/alnotes/alnotes/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	note := handler.NewNoteHandler(app.NoteService)
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	tax := handler.NewTaxonomyHandler()
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Notes
	mux.HandleFunc("POST /notes", middleware.RequireAuth(note.Create))
	mux.HandleFunc("GET /notes", note.Search)
	mux.HandleFunc("DELETE /notes/{id}", middleware.RequireAuth(note.Delete))
	mux.HandleFunc("POST /notes/{id}/downloads", note.RecordDownload)

	// Taxonomy (shared by the upload form and the search filters)
	mux.HandleFunc("GET /taxonomy", tax.Show)

	// Auth - identity provider round trip (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)
	mux.HandleFunc("GET /auth/google", rateLimiter(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))
	mux.HandleFunc("GET /auth/me", auth.Me)
	mux.HandleFunc("POST /auth/logout", auth.Logout)

	// Health
	mux.HandleFunc("GET /health", health.Check)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.SecurityHeaders,
		middleware.AuthMiddleware(app.AuthService),
	)

	return h
}
