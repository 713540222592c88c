// Package logging builds the operational loggers used by localmock.
//
// Operational logs (config loads, body parse failures, server lifecycle) go
// through log/slog. They are separate from the request history kept by
// package requestlog, which is what GET /__logs returns.
//
//	log := logging.New(logging.Config{
//	    Level:  logging.ParseLevel("debug"),
//	    Format: logging.FormatJSON,
//	})
//	log.Info("configuration loaded", "path", path, "endpoints", n)
//
// Components accept a *slog.Logger through their constructor or an option and
// fall back to logging.Nop() when none is given.
package logging
