package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"mentora-backend/internal/handlers"
	"mentora-backend/internal/middleware"
	"mentora-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	educationHandler *handlers.EducationHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Mutation rate limiter (60 req/min per IP)
	writeLimiter := middleware.NewRateLimiter(60, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Education Process Routes ────
		r.Route("/education/processes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Get("/", educationHandler.List)
			r.Get("/{id}", educationHandler.Get)

			r.Group(func(r chi.Router) {
				r.Use(writeLimiter.Middleware)
				r.Post("/", educationHandler.Start)
				r.Post("/{id}/advance", educationHandler.Advance)
				r.Post("/{id}/suggest-next-step", educationHandler.SuggestNextStep)
				r.Delete("/{id}", educationHandler.Delete)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
