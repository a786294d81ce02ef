package main

import (
	"context"
	"net/http"
	"time"

	"booksapi/internal/book"
	"booksapi/internal/config"
	"booksapi/internal/httpx"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func newRouter(books *book.HTTPHandler, db pinger) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			httpx.JSONError(w, r, http.StatusServiceUnavailable, "db not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /books", books.Create)
	router.HandleFunc("POST /books/bulk", books.CreateBulk)
	router.HandleFunc("GET /books", books.ListByAuthor)
	router.HandleFunc("GET /books/all", books.ListAll)

	return router
}

// newHandler wraps the router in the middleware stack. ctx bounds the rate
// limiter's background cleanup.
func newHandler(ctx context.Context, cfg *config.Config, router http.Handler) http.Handler {
	rateLimiter := httpx.NewRateLimitMiddleware(ctx, cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, cfg.HTTP.TrustProxy)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware,
		httpx.RecoveryMiddleware,
		httpx.SecurityHeadersMiddleware(cfg.IsProduction()),
		httpx.CORSMiddleware(cfg.HTTP.AllowedOrigins),
		rateLimiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.HTTP.MaxBodyBytes),
	)
}
