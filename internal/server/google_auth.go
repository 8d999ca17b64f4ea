package server

import (
	"log"
	"net/http"

	"gemini-chat-backend/internal/auth"
	"gemini-chat-backend/internal/types"
)

// GET /api/auth/google?returnTo=/some/path
// Redirects the browser to Google's authorization endpoint. The returnTo
// path rides along as the opaque state and comes back on the callback.
func (s *Server) handleGoogleAuth(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg.ClientID == "" {
		s.writeError(w, http.StatusInternalServerError, "google oauth is not configured")
		return
	}
	returnTo := r.URL.Query().Get("returnTo")
	if returnTo == "" {
		returnTo = "/"
	}
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(returnTo), http.StatusFound)
}

// GET /api/auth/google/callback?code=...&state=...
// Exchanges the code, verifies the id_token, issues the session credential
// and sends the browser back to the frontend at the stored return path.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if state == "" {
		state = "/"
	}
	if code == "" {
		s.writeError(w, http.StatusBadRequest, "authorization code is missing")
		return
	}
	if s.oauthCfg.ClientID == "" || s.oauthCfg.ClientSecret == "" {
		s.writeError(w, http.StatusInternalServerError, "google oauth is not configured")
		return
	}

	tok, err := s.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		log.Println("google token exchange failed:", err)
		s.writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}
	rawID, _ := tok.Extra("id_token").(string)
	if rawID == "" {
		log.Println("google token response carried no id_token")
		s.writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	payload, err := s.verifyIDToken(r.Context(), rawID, s.oauthCfg.ClientID)
	if err != nil {
		log.Println("id token verification failed:", err)
		s.writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	token, err := auth.IssueToken(payload.Subject, email, name, picture, s.cfg.JWTSecret)
	if err != nil {
		log.Println("session token issuance failed:", err)
		s.writeError(w, http.StatusInternalServerError, "authentication failed")
		return
	}

	s.setAuthCookie(w, token)
	http.Redirect(w, r, s.cfg.FrontendURL+state, http.StatusFound)
}

// GET /api/auth/me
// Always 200; anonymous callers get {authenticated: false, user: null}.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := s.currentUser(r)
	if claims == nil {
		s.writeJSON(w, http.StatusOK, types.MeResponse{Authenticated: false, User: nil})
		return
	}
	s.writeJSON(w, http.StatusOK, types.MeResponse{
		Authenticated: true,
		User: &types.AuthUser{
			ID:      claims.UserID(),
			Email:   claims.Email,
			Name:    claims.Name,
			Picture: claims.Picture,
		},
	})
}

// POST /api/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	s.writeJSON(w, http.StatusOK, types.LogoutResponse{Success: true})
}
