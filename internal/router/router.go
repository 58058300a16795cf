// Package router sets up all HTTP routes and middleware chains for
// PrimaryCat. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"primarycat/internal/auth"
	"primarycat/internal/handlers"
	"primarycat/internal/middleware"
)

// Options configures the router.
type Options struct {
	// SecureCookies marks the CSRF cookie Secure (HTTPS only).
	SecureCookies bool

	// LoginLimiter throttles POST /admin/login per client IP. Nil disables it.
	LoginLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions middleware.SessionGetter, admin *handlers.Admin, authH *handlers.Auth, public *handlers.Public, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Admin routes: CSRF protection on everything, auth on all but login.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.NewCSRF(opts.SecureCookies))

		r.Get("/login", authH.LoginPage)
		r.With(limit(opts.LoginLimiter)).Post("/login", authH.LoginSubmit)
		r.Post("/logout", authH.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/{id}", admin.PostEdit)
				r.Post("/{id}/primary-category", admin.SavePrimaryCategory)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(auth.CapManageCategories))
					r.Post("/", admin.CategoryCreate)
					r.Delete("/{id}", admin.CategoryDelete)
				})
			})
		})
	})

	// Public routes.
	r.Get("/api/primary-category/{slug}", public.PrimaryCategoryAPI)
	r.Get("/category/{slug}", public.Category)
	r.Get("/", public.Homepage)
	r.Get("/{slug}", public.Page)

	return r
}

// limit returns the limiter's middleware, or a pass-through when nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
