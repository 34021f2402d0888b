// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"uno-server/internal/auth"
	"uno-server/internal/cache"
	"uno-server/internal/database"
	"uno-server/internal/handlers"
	"uno-server/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}

	if err := cache.ConnectRedis(); err != nil {
		// Match records are best effort; the game runs fine without them.
		logger.Warnf("redis unavailable, match results will not be recorded: %v", err)
	}

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	// game gateway
	gs := handlers.NewGameServer(logger)
	mux.Handle("/play/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.PlayWSHandler(logger, gs),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
