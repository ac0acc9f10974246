// Package config provides 12-factor configuration for the myvfs shell and API.
//
// Configuration is loaded from environment variables with sensible defaults.
// Command-line flags of the binary override selected values.
//
// Configuration Sections:
//   - Shell: prompt name, home directory and user of the layout
//   - Seed: seed document, host directory import and default layout
//   - Server: HTTP API listen address
//   - Logging: log level, format and output
//   - RateLimit: per-IP rate limiting of the API
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("API listening on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - VFS_NAME, VFS_HOME, VFS_USER
//   - VFS_SEED_FILE, VFS_SEED_DIR, VFS_SEED_TARGET, VFS_SEED_MAX_FILE_SIZE, VFS_DEFAULT_LAYOUT
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV, LOG_OUTPUT
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
