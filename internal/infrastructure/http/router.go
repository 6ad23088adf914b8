package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/taskhive/taskhive/internal/infrastructure/http/handlers"
	"github.com/taskhive/taskhive/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler     *handlers.AuthHandler
	HealthHandler   *handlers.HealthHandler
	UsersHandler    *handlers.UsersHandler
	ProjectsHandler *handlers.ProjectsHandler
	TasksHandler    *handlers.TasksHandler
	CommentsHandler *handlers.CommentsHandler
	RequireJWT      func(http.Handler) http.Handler
	Log             zerolog.Logger
	Secure          func(http.Handler) http.Handler
	CORS            func(http.Handler) http.Handler
	IPRateLimit     func(http.Handler) http.Handler
	Metrics         bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	if cfg.CORS != nil {
		r.Use(cfg.CORS)
	}
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
		if cfg.RequireJWT != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.RequireJWT)
				r.Post("/logout", cfg.AuthHandler.Logout)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		}
	})

	if cfg.RequireJWT == nil {
		return r
	}

	if cfg.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(cfg.RequireJWT)
			r.Get("/me", cfg.UsersHandler.Me)
			r.Patch("/me", cfg.UsersHandler.UpdateMe)
			r.Patch("/me/password", cfg.UsersHandler.ChangePassword)
			r.Get("/me/activity", cfg.UsersHandler.MyActivity)
		})
	}

	if cfg.ProjectsHandler == nil || cfg.TasksHandler == nil || cfg.CommentsHandler == nil {
		return r
	}

	r.Route("/projects", func(r chi.Router) {
		r.Use(cfg.RequireJWT)
		r.Post("/", cfg.ProjectsHandler.Create)
		r.Get("/", cfg.ProjectsHandler.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", cfg.ProjectsHandler.Get)
			r.Patch("/", cfg.ProjectsHandler.Update)
			r.Patch("/archive", cfg.ProjectsHandler.Archive)
			r.Delete("/", cfg.ProjectsHandler.Delete)
			r.Get("/activity", cfg.ProjectsHandler.Activity)
			r.Get("/members", cfg.ProjectsHandler.ListMembers)
			r.Post("/members", cfg.ProjectsHandler.AddMember)
			r.Put("/members/{userID}", cfg.ProjectsHandler.ChangeMemberRole)
			r.Delete("/members/{userID}", cfg.ProjectsHandler.RemoveMember)
			r.Post("/tasks", cfg.TasksHandler.Create)
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(cfg.RequireJWT)
		r.Get("/", cfg.TasksHandler.ListMine)
		r.Route("/{taskID}", func(r chi.Router) {
			r.Put("/", cfg.TasksHandler.Update)
			r.Delete("/", cfg.TasksHandler.Delete)
			r.Post("/comments", cfg.CommentsHandler.Add)
			r.Get("/comments", cfg.CommentsHandler.List)
		})
	})

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
