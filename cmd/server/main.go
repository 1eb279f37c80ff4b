package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/vedran77/roster/internal/config"
	"github.com/vedran77/roster/internal/logger"
	"github.com/vedran77/roster/internal/repository/jsonfile"
	"github.com/vedran77/roster/internal/service"
	"github.com/vedran77/roster/internal/transport/http/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg := logger.New(cfg.LogLevel, cfg.LogFormat)

	// Storage
	store := jsonfile.NewUserStore(cfg.DataFile)
	if _, err := store.LoadAll(context.Background()); err != nil {
		logg.Fatalf("Failed to open data file: %v", err)
	}
	logg.Infof("Using data file %s", cfg.DataFile)

	// Services
	userService := service.NewUserService(store, logg)

	// Handlers
	userHandler := handlers.NewUserHandler(userService, logg)

	// Routes
	handler := handlers.NewRouter(userHandler, cfg.AllowedOrigins, logg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logg.Infof("Starting server on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logg.Fatal(err)
	}
}
