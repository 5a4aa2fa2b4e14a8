// Package logging provides structured logging configuration for vab.
//
// This package wraps log/slog so every vab component (the request pipeline,
// the mock server, the CLI) logs the same way.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("mock server started", "port", 8091)
//
// # Route logging
//
// The request pipeline reports every mock/real routing decision. With the
// mock policy's debug flag on, these lines are emitted at Info so they show
// up with the default level; otherwise they are Debug. Use RouteLevel to pick
// the level and Route to emit the line.
//
// # Redaction
//
// Response bodies logged at Debug pass through RedactJSON first so the
// access token of a login response never reaches the log.
//
// # Integration
//
// Components accept a *slog.Logger in their constructor or via an option.
// If no logger is provided, use logging.Nop().
package logging
