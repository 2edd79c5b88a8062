package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"inkpress/internal/config"
	"inkpress/internal/middleware"
	"inkpress/internal/render"
	"inkpress/internal/session"
)

// Auth groups all authentication-related HTTP handlers. There is exactly
// one admin account, configured through environment variables, so login
// compares against the configured email and bcrypt hash rather than a
// user table.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	cfg      *config.Config
	limiter  *middleware.LoginLimiter
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, cfg *config.Config, limiter *middleware.LoginLimiter) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		cfg:      cfg,
		limiter:  limiter,
	}
}

// totpConfigured reports whether a second factor is required at login.
func (a *Auth) totpConfigured() bool {
	return a.cfg.AdminTOTPSecret != ""
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already fully logged in: straight to the posts list.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "admin/login", &render.PageData{
		Title: "Log in",
	})
}

// loginError re-renders the login form with an error flash.
func (a *Auth) loginError(w http.ResponseWriter, r *http.Request, msg string) {
	a.renderer.Page(w, r, "admin/login", &render.PageData{
		Title:   "Log in",
		Flashes: []render.Flash{{Type: "error", Message: msg}},
	})
}

// LoginSubmit processes the login form. Failed attempts count against the
// per-IP limiter; a success clears the client's record.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if !a.limiter.Allowed(r) {
		slog.Warn("login rate limited", "remote", middleware.ClientIP(r))
		a.loginError(w, r, "Too many failed attempts. Try again later.")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if !strings.EqualFold(email, a.cfg.AdminEmail) || !checkPassword(a.cfg.AdminPasswordHash, password) {
		a.limiter.RecordFailure(r)
		slog.Info("login failed", "remote", middleware.ClientIP(r))
		a.loginError(w, r, "Invalid email or password.")
		return
	}

	a.limiter.Reset(r)

	// When no TOTP secret is configured the password is the whole ceremony.
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		Email:     a.cfg.AdminEmail,
		TwoFADone: !a.totpConfigured(),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if a.totpConfigured() {
		http.Redirect(w, r, "/admin/login/2fa", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// TwoFAPage renders the TOTP code entry form.
func (a *Auth) TwoFAPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "admin/login_2fa", &render.PageData{
		Title: "Two-factor check",
	})
}

// TwoFASubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFASubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	if !totp.Validate(code, a.cfg.AdminTOTPSecret) {
		slog.Info("totp check failed", "remote", middleware.ClientIP(r))
		a.renderer.Page(w, r, "admin/login_2fa", &render.PageData{
			Title:   "Two-factor check",
			Flashes: []render.Flash{{Type: "error", Message: "Invalid code. Please try again."}},
		})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// checkPassword compares a bcrypt hash against a candidate password.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
