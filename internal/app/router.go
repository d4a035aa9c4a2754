package app

import (
	"net/http"

	"taskManager/internal/handlers"
	"taskManager/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func (a *App) newRouter() http.Handler {
	debug := a.config.Server.Debug
	authH := handlers.NewAuthHandler(a.users, debug)
	userH := handlers.NewUserHandler(a.users, debug)
	projectH := handlers.NewProjectHandler(a.projects, debug)
	taskH := handlers.NewTaskHandler(a.tasks, debug)
	healthH := handlers.NewHealthHandler(a.storage)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if a.config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	}
	r.Use(middleware.RateLimit(a.config.RateLimit.RequestsPerMinute))

	r.Get("/health", healthH.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
			r.Post("/refresh", authH.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(a.tokens))
				r.Get("/me", authH.Me)
				r.Post("/logout", authH.Logout)
				r.Get("/validate-token", authH.ValidateToken)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(a.tokens))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userH.List)
				r.Get("/{id}", userH.Get)
				r.Put("/{id}", userH.Update)
				r.Delete("/{id}", userH.Delete)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Get("/", projectH.List)
				r.Post("/", projectH.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", projectH.Get)
					r.Put("/", projectH.Update)
					r.Delete("/", projectH.Delete)
					r.Post("/members", projectH.AddMember)
					r.Delete("/members/{userId}", projectH.RemoveMember)
				})
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskH.List)
				r.Post("/", taskH.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskH.Get)
					r.Put("/", taskH.Update)
					r.Delete("/", taskH.Delete)
					r.Get("/comments", taskH.ListComments)
					r.Post("/comments", taskH.AddComment)
					r.Put("/comments/{commentId}", taskH.UpdateComment)
					r.Delete("/comments/{commentId}", taskH.DeleteComment)
					r.Post("/attachments", taskH.UploadAttachment)
				})
			})
		})
	})

	return otelhttp.NewHandler(r, "task-manager",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
