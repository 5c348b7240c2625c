package rest

import (
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"testgen/internal/metrics"
	"testgen/internal/platform/logger"
	"testgen/internal/service"
	"testgen/internal/transport/rest/handler"
	"testgen/internal/transport/rest/middleware"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService      *service.AuthService
	CoreValueService *service.CoreValueService
	TestService      *service.TestService
	Validate         *validator.Validate
	Log              *logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService, c.Validate)
	coreValueHandler := handler.NewCoreValueHandler(c.CoreValueService)
	testHandler := handler.NewTestHandler(c.TestService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)
	r.Use(middleware.RequestLogger(c.Log))
	r.Use(metrics.Middleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	// User routes (require an ID token)
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/auth/me", authHandler.Me).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/core-values", coreValueHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/core-values", coreValueHandler.Add).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/core-values", coreValueHandler.Replace).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/core-values/{index:[0-9]+}", coreValueHandler.Delete).Methods("DELETE", "OPTIONS")
	userRoutes.HandleFunc("/tests", testHandler.Generate).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/tests/runs", testHandler.Runs).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/tests/{testId}/export", testHandler.Export).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization, X-Request-ID"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
