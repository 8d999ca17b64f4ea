package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// PlaceholderJWTSecret is the fallback signing secret. Deployments must
// override it; Load warns loudly when it is in effect.
const PlaceholderJWTSecret = "default-secret-key-change-in-production"

type Config struct {
	Port string
	Env  string
	// Gemini
	GeminiAPIKey     string
	GeminiModel      string
	GroundingEnabled bool
	// Google OAuth
	GoogleClientID     string
	GoogleClientSecret string
	// Session signing
	JWTSecret string
	// URLs
	BackendURL  string
	FrontendURL string
	// CORS
	AllowedOrigins []string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:               getEnvDefault("PORT", "8081"),
		Env:                getEnvDefault("APP_ENV", "development"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		GroundingEnabled:   getEnvBoolDefault("GEMINI_GROUNDING", true),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		JWTSecret:          getEnvDefault("JWT_SECRET", PlaceholderJWTSecret),
		BackendURL:         getEnvDefault("BACKEND_URL", "http://localhost:8081"),
		FrontendURL:        getEnvDefault("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins:     getEnvListDefault("ALLOWED_ORIGINS", nil),
	}
	if cfg.IsDevelopment() {
		// Local dev frontends are always allowed outside production.
		cfg.AllowedOrigins = append(cfg.AllowedOrigins,
			"http://localhost:3000", "http://localhost:8080")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("warning: GEMINI_API_KEY is not set; /api/chat will fail until provided")
	}
	if cfg.JWTSecret == PlaceholderJWTSecret {
		log.Println("warning: JWT_SECRET is not set; using the placeholder secret, sessions are forgeable")
	}
	return cfg
}

func (c Config) IsDevelopment() bool { return c.Env != "production" }

// CallbackURL is the OAuth redirect URI registered with Google.
func (c Config) CallbackURL() string {
	return strings.TrimRight(c.BackendURL, "/") + "/api/auth/google/callback"
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			s := strings.TrimSpace(p)
			if s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}
