// Package logging builds the zap loggers used by the binary and the server.
//
// Production logs are JSON; development logs are colored console lines at
// debug level. Output goes to stderr unless LOG_OUTPUT names a file, so logs
// stay out of the shell's stdout. Domain packages receive the embedded
// *zap.Logger, usually through Named:
//
//	logger, err := logging.New(logging.FromConfig(cfg.Logging))
//	shellLog := logger.Named("shell").Logger
package logging
