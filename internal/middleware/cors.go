package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// CORSMiddleware configures CORS settings. Development allows every origin.
// Outside development an empty origin list allows none.
func CORSMiddleware(allowedOrigins []string, isDevelopment bool, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}

	switch {
	case isDevelopment:
		options.AllowedOrigins = []string{"*"}
	case len(allowedOrigins) == 0:
		// cors treats an empty list as "*", so reject explicitly.
		logger.Warn("No CORS origins configured, cross-origin requests will be rejected")
		options.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}

	return cors.Handler(options)
}

// DefaultMiddlewareStack returns a stack of commonly used middleware
func DefaultMiddlewareStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.Compress(5),
	}
}
