package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Irshadp556/movie-review-analysis/internal/api/handlers"
	"github.com/Irshadp556/movie-review-analysis/internal/auth"
	"github.com/Irshadp556/movie-review-analysis/internal/services"
	"github.com/Irshadp556/movie-review-analysis/internal/web"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	db *sql.DB,
	store *auth.Store,
	oauth *auth.GoogleOAuth,
	userService services.UserServiceProvider,
	reviewService services.ReviewServiceProvider,
	classifier handlers.Classifier,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, reviewService, store, oauth)
	reviewHandler := handlers.NewReviewHandler(reviewService, classifier)
	healthHandler := handlers.NewHealthHandler(db)

	r.Get("/healthz", healthHandler.Get)
	r.Handle("/static/*", web.Static())

	r.Group(func(r chi.Router) {
		r.Use(store.Middleware)

		// The OAuth redirect URI is the site root, so "/" has to serve
		// three cases: finish a pending Google callback, bounce anonymous
		// visitors to the login form, or render the app.
		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			sess := auth.FromContext(req.Context())
			if !sess.Authenticated {
				if req.URL.Query().Get("code") != "" {
					authHandler.OAuthCallback(w, req)
					return
				}
				http.Redirect(w, req, "/login", http.StatusSeeOther)
				return
			}
			reviewHandler.Home(w, req)
		})

		r.Get("/login", authHandler.ShowLogin)
		r.Post("/login", authHandler.Login)
		r.Get("/signup", authHandler.ShowSignup)
		r.Post("/signup", authHandler.Signup)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Post("/reviews", reviewHandler.Create)
			r.Route("/api/v1", func(r chi.Router) {
				r.Get("/reviews", reviewHandler.List)
				r.Get("/summary", reviewHandler.Summary)
			})
		})
	})

	return r
}
