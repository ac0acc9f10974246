// Command myvfs is an interactive shell over an in-memory filesystem.
//
// The shell understands ls, cd, pwd, mkdir, touch, write, cat, rm, rmdir,
// tree, find, stat, chmod, echo, help and exit. Arguments follow POSIX-like
// quoting, and $VAR / ${VAR} are expanded from the process environment with
// HOME falling back to USERPROFILE and USER to USERNAME.
//
// Usage:
//
//	# Interactive session
//	./myvfs
//
//	# Run one line; exit status 1 if it fails
//	./myvfs -c 'mkdir -p a/b'
//
//	# Serve sessions over HTTP and WebSocket
//	./myvfs -serve
//
//	# Development mode (colored logs, debug level)
//	./myvfs -dev
//
// Configuration comes from the environment (VFS_*, LOG_*, HOST, PORT,
// RATE_LIMIT_*). The tree starts empty unless VFS_DEFAULT_LAYOUT,
// VFS_SEED_FILE or VFS_SEED_DIR populate it.
//
// Signals:
//   - SIGINT: abandons the current line in the REPL, shuts the server down
//   - SIGTERM: graceful server shutdown
package main
