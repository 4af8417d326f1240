package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"campus-connect-api/internal/config"
	"campus-connect-api/internal/handler"
	"campus-connect-api/internal/middleware"
	"campus-connect-api/internal/model"
)

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handler.AuthHandler,
	dashboardHandler *handler.DashboardHandler,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", authHandler.Signup)
			auth.Post("/login", authHandler.Login)
			auth.Post("/verify", authHandler.Verify)
			auth.With(authMiddleware.RequireAuth).Get("/me", authHandler.Me)
		})

		api.Route("/dashboard", func(dash chi.Router) {
			dash.Use(authMiddleware.RequireAuth)
			dash.With(authMiddleware.RequireRole(model.RoleStudent)).Get("/student", dashboardHandler.Student)
			dash.With(authMiddleware.RequireRole(model.RoleTeacher)).Get("/teacher", dashboardHandler.Teacher)
			dash.With(authMiddleware.RequireRole(model.RoleSociety)).Get("/society", dashboardHandler.Society)
		})
	})

	return r
}
