package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/family-tree-api/internal/auth"
	"github.com/crucial707/family-tree-api/internal/config"
	"github.com/crucial707/family-tree-api/internal/handlers"
	"github.com/crucial707/family-tree-api/internal/middleware"
	"github.com/crucial707/family-tree-api/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full HTTP handler: middleware chain, health/metrics
// endpoints, auth routes, and tree routes.
func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	issuer := auth.NewIssuer(
		[]byte(cfg.JWTSecret),
		time.Duration(cfg.AccessTokenTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLHours)*time.Hour,
	)

	userRepo := repo.NewUserRepo(db)
	treeRepo := repo.NewTreeRepo(db)

	authHandler := &handlers.AuthHandler{UserRepo: userRepo, Issuer: issuer}
	treeHandler := &handlers.TreeHandler{Repo: treeRepo, UserRepo: userRepo}

	hsts := cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.SecurityHeaders(hsts))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.Prometheus)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authLimiter := middleware.AuthRateLimiter()
	r.Route("/auth", func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(middleware.RequireAuth(issuer)).Get("/me", authHandler.Me)
	})

	r.Route("/trees", func(r chi.Router) {
		r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

		// Identity is mandatory for listing and deleting.
		r.With(middleware.RequireAuth(issuer)).Get("/", treeHandler.ListTrees)
		r.With(middleware.RequireAuth(issuer)).Delete("/{id}", treeHandler.DeleteTree)

		// Everything else tolerates a missing or invalid token: such
		// requests proceed as anonymous.
		optional := middleware.OptionalAuth(issuer)
		r.With(optional).Post("/", treeHandler.CreateTree)
		r.With(optional).Get("/{id}", treeHandler.GetTree)
		r.With(optional).Put("/{id}", treeHandler.UpdateTree)

		r.Post("/anonymous", treeHandler.CreateAnonymousTree)
	})

	return r
}
