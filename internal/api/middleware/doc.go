// Package middleware provides the HTTP middleware of the session API.
//
// Middleware stack:
//   - CORS: cross-origin access for browser terminals
//   - RateLimit: per-IP token bucket with idle eviction
//   - RequestID: X-Request-ID tagging with prefixed ULIDs
//   - Logger: one zap line per request
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(cfg.RateLimit))
package middleware
