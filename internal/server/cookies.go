package server

import (
	"net/http"

	"gemini-chat-backend/internal/auth"
)

// AuthCookieName is the cookie carrying the signed session credential.
const AuthCookieName = "auth_token"

// setAuthCookie attaches the session credential. HttpOnly keeps it away from
// page scripts; Secure is off in development so plain-http localhost works.
func (s *Server) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.TokenValidity.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.cfg.IsDevelopment(),
	})
}

// clearAuthCookie expires the session cookie. Same name and path as issuance
// so the browser actually discards it.
func (s *Server) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !s.cfg.IsDevelopment(),
	})
}

func getAuthCookie(r *http.Request) string {
	cookie, err := r.Cookie(AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
