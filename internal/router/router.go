package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"joyland-backend/internal/handlers"
	"joyland-backend/internal/middleware"
	"joyland-backend/internal/models"
	"joyland-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	presenceTracker *middleware.PresenceTracker,
	authHandler *handlers.AuthHandler,
	registrationHandler *handlers.RegistrationHandler,
	landingHandler *handlers.LandingHandler,
	announcementHandler *handlers.AnnouncementHandler,
	presenceHandler *handlers.PresenceHandler,
	teacherHandler *handlers.TeacherHandler,
	adminHandler *handlers.AdminHandler,
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
	r.Use(presenceTracker.Middleware)

	// Limits on the endpoints anonymous users can hammer (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter("auth", 10, time.Minute)
	registrationLimiter := middleware.NewRateLimiter("registration", 5, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/login", authHandler.Login)
			r.Post("/student-access", authHandler.StudentAccess)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
			r.Post("/one-time", authHandler.OneTimeLogin)
		})

		// ──── Public landing / announcements ────
		r.Get("/landing", landingHandler.Landing)
		r.Get("/announcements", announcementHandler.Active)
		r.Get("/announcements/archive", announcementHandler.Archive)
		r.Get("/presence", presenceHandler.Stats)
		r.Get("/presence/live", wsHub.HandleWebSocket)

		// ──── Registration (public submit, admin review) ────
		r.Route("/registrations", func(r chi.Router) {
			r.With(registrationLimiter.Middleware).Post("/", registrationHandler.Submit)

			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Use(middleware.RequireRoles(models.RoleSystemAdmin))
				r.Get("/", registrationHandler.List)
				r.Post("/{id}/approve", registrationHandler.Approve)
				r.Post("/{id}/deny", registrationHandler.Deny)
			})
		})

		// ──── Teacher planning tools ────
		r.Route("/teacher", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRoles(models.RoleTeacher, models.RolePrincipal, models.RoleSystemAdmin))
			r.Post("/term-plan", teacherHandler.TermPlan)
			r.Post("/assessment", teacherHandler.Assessment)
			r.Post("/progress", teacherHandler.Progress)
			r.Post("/activities", teacherHandler.Activities)
		})

		// ──── Admin ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireRoles(models.RoleSystemAdmin))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", adminHandler.ListUsers)
				r.Post("/", adminHandler.CreateUser)
				r.Delete("/{id}", adminHandler.DeleteUser)
			})

			r.Route("/announcements", func(r chi.Router) {
				r.Get("/", announcementHandler.ListAll)
				r.Post("/", announcementHandler.Create)
				r.Get("/draft", announcementHandler.Draft)
				r.Put("/{id}", announcementHandler.Update)
				r.Delete("/{id}", announcementHandler.Delete)
			})
		})
	})

	return r
}
