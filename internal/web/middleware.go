package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/erazemk/gestextintor/internal/auth"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const cookieName = "gestextintor_session"

// RevocationChecker reports whether a token id was revoked by a logout.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// CookieAuthMiddleware validates the session cookie, checks token revocation,
// and adds claims to context. Anything unexpected sends the user to /login.
func CookieAuthMiddleware(secret string, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			claims, err := auth.ValidateToken(secret, cookie.Value)
			if err != nil {
				clearAuthCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			isRevoked, err := revoked.IsTokenRevoked(r.Context(), claims.ID)
			if err != nil {
				slog.Error("failed to check token revocation", "error", err)
			}
			if err != nil || isRevoked {
				clearAuthCookie(w)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// setAuthCookie stores token in a session cookie. Without Max-Age the browser
// drops it when it closes.
func setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

// page builds the base template data for an authenticated page.
func page(r *http.Request, title, active string) PageData {
	return PageData{Title: title, Active: active, User: GetWebClaims(r.Context())}
}
