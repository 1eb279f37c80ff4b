package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vedran77/roster/internal/transport/http/middleware"
)

// NewRouter mounts the full HTTP surface behind CORS and request logging.
func NewRouter(userHandler *UserHandler, allowedOrigins []string, logger *logrus.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", Health)

	mux.HandleFunc("GET /users", userHandler.List)
	mux.HandleFunc("POST /users", userHandler.Create)
	// Registered alongside /users/{id}; the literal segment wins.
	mux.HandleFunc("GET /users/search", userHandler.Search)
	mux.HandleFunc("GET /users/{id}", userHandler.Get)
	mux.HandleFunc("PUT /users/{id}", userHandler.Update)
	mux.HandleFunc("DELETE /users/{id}", userHandler.Delete)

	return middleware.CORS(allowedOrigins)(middleware.RequestLogger(logger)(mux))
}
