package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"theraplay-backend/internal/handlers"
	"theraplay-backend/internal/middleware"
)

func New(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	activityHandler *handlers.ActivityHandler,
	marketplaceHandler *handlers.MarketplaceHandler,
	purchaseHandler *handlers.PurchaseHandler,
	reviewHandler *handlers.ReviewHandler,
	authLimiter *middleware.RateLimiter,
	logger *zap.Logger,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(frontendURL))

	r.Route("/api", func(r chi.Router) {

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"healthy","message":"API is running"}`))
		})

		// ──── Auth (public, rate limited) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
		})

		// ──── Users & Tutors ────
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Put("/{id}", userHandler.Update)
		})
		r.Route("/tutors", func(r chi.Router) {
			r.Get("/", userHandler.ListTutors)
			r.Get("/{id}", userHandler.GetTutor)
		})

		// ──── Activities (authoring) ────
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", activityHandler.List)
			r.Post("/", activityHandler.Create)
			r.Get("/{id}", activityHandler.Get)
			r.Put("/{id}", activityHandler.Update)
			r.Delete("/{id}", activityHandler.Delete)
		})

		// ──── Marketplace ────
		r.Route("/marketplace", func(r chi.Router) {
			r.Get("/activities", marketplaceHandler.List)
			r.Post("/activities/{id}/publish", marketplaceHandler.Publish)
		})

		// ──── Purchases ────
		r.Route("/purchases", func(r chi.Router) {
			r.Post("/", purchaseHandler.Create)
			r.Get("/user/{userId}", purchaseHandler.ListByUser)
			r.Get("/check/{userId}/{activityId}", purchaseHandler.Check)
		})

		// ──── Reviews ────
		r.Route("/reviews", func(r chi.Router) {
			r.Post("/", reviewHandler.Create)
			r.Get("/activity/{activityId}", reviewHandler.ListByActivity)
		})
	})

	return r
}
