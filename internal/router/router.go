// Package router sets up all HTTP routes and middleware chains for the
// inkpress server. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"inkpress/internal/handlers"
	"inkpress/internal/middleware"
	"inkpress/internal/session"
	"inkpress/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessionStore *session.Store, public *handlers.Public, auth *handlers.Auth, admin *handlers.Admin, tax *handlers.Taxonomy) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check — no auth, no CSRF.
	r.Get("/health", handlers.Health)

	// Static assets embedded in the binary.
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Admin routes — require authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.Post("/login", auth.LoginSubmit)
		r.Get("/login/2fa", auth.TwoFAPage)
		r.Post("/login/2fa", auth.TwoFASubmit)
		r.Post("/logout", auth.Logout)

		// Authenticated admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/", func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, "/admin/posts", http.StatusSeeOther)
			})

			// Posts
			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/new", admin.PostNew)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}/edit", admin.PostEdit)
				r.Post("/{id}", admin.PostUpdate)
				r.Post("/{id}/delete", admin.PostDelete)
			})

			// Taxonomy management page
			r.Get("/taxonomy", tax.Page)

			// JSON API for the admin UI
			r.Route("/api", func(r chi.Router) {
				r.Post("/posts/{id}/status", admin.PostSetStatus)

				r.Route("/taxonomy", func(r chi.Router) {
					r.Post("/categories", tax.CreateCategory)
					r.Put("/categories/{id}", tax.RenameCategory)
					r.Delete("/categories/{id}", tax.DeleteCategory)

					r.Get("/topics", tax.ListTopics)
					r.Post("/topics", tax.CreateTopic)
					r.Put("/topics/{id}", tax.RenameTopic)
					r.Delete("/topics/{id}", tax.DeleteTopic)

					r.Get("/groups", tax.ListGroups)
					r.Post("/groups", tax.CreateGroup)
					r.Put("/groups/{id}", tax.RenameGroup)
					r.Delete("/groups/{id}", tax.DeleteGroup)
				})
			})

			// Settings
			r.Get("/settings", admin.Settings)
		})
	})

	// Public blog routes.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/posts", http.StatusSeeOther)
	})
	r.Get("/posts", public.Index)
	r.Get("/posts/{id}", public.Show)

	return r
}
