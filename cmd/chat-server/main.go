package main

import (
	"context"
	"log"
	"net/http"

	"gemini-chat-backend/internal/config"
	"gemini-chat-backend/internal/server"
)

func main() {
	cfg := config.Load()
	s, err := server.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	addr := ":" + cfg.Port
	log.Printf("chat server listening on %s (env=%s)", addr, cfg.Env)
	log.Fatal(http.ListenAndServe(addr, s.Router()))
}
