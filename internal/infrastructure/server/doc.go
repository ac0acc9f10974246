// Package server assembles the gin router for the session API and runs it
// with graceful shutdown.
//
// Middleware order: recovery, request id, request logging, metrics, CORS,
// then rate limiting when enabled.
package server
