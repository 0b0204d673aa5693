package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"renderbot/api"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter(api.DefaultPaths())
	log.Printf("Starting UI server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET    /health")
	log.Println("  GET    /api/status")
	log.Println("  GET    /api/avatars")
	log.Println("  POST   /api/avatars")
	log.Println("  DELETE /api/avatars/:name")
	log.Println("  GET    /api/queue")
	log.Println("  POST   /api/queue/start")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
