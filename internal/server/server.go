package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"gemini-chat-backend/internal/auth"
	"gemini-chat-backend/internal/config"
	"gemini-chat-backend/internal/gemini"
	"gemini-chat-backend/internal/types"
)

type Server struct {
	router   *chi.Mux
	cfg      config.Config
	chat     *gemini.Service
	oauthCfg *oauth2.Config
	// verifyIDToken checks the provider's id_token signature and extracts
	// its claims. Tests swap in a fake; production uses idtoken.Validate.
	verifyIDToken func(ctx context.Context, rawToken, audience string) (*idtoken.Payload, error)
}

func NewServer(ctx context.Context, cfg config.Config) (*Server, error) {
	// No API key means the server still starts; /api/chat reports the
	// misconfiguration per request instead.
	var gen gemini.Generator
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, gemini.WithModel(cfg.GeminiModel))
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		gen = client
	}

	// OAuth2 config (may be partially empty if env not set; handlers check)
	oCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.CallbackURL(),
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	s := &Server{
		router:        chi.NewRouter(),
		cfg:           cfg,
		chat:          gemini.NewService(gen, cfg.GroundingEnabled),
		oauthCfg:      oCfg,
		verifyIDToken: idtoken.Validate,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.corsHandler)

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/chat/stream", s.handleChatStream)
	// Google OAuth login
	s.router.Get("/api/auth/google", s.handleGoogleAuth)
	s.router.Get("/api/auth/google/callback", s.handleGoogleCallback)
	s.router.Get("/api/auth/me", s.handleMe)
	s.router.Post("/api/auth/logout", s.handleLogout)
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, types.ErrorResponse{Error: msg})
}

// currentUser resolves the session cookie to identity claims. A missing,
// invalid or expired credential is an anonymous caller, never an error.
func (s *Server) currentUser(r *http.Request) *auth.Claims {
	token := getAuthCookie(r)
	if token == "" {
		return nil
	}
	return auth.VerifyToken(token, s.cfg.JWTSecret)
}
