// Package logger provides structured logging built on log/slog.
//
// This package is a thin factory around the standard library's slog with
// production defaults: JSON output, Info level, and an optional static
// component attribute. It also ships a no-op logger used as the default in
// library packages so logging stays opt-in.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithComponent("store"),
//	)
//	log.Info("connected", slog.String("topology", "sentinel"))
//
// Library packages accept a *slog.Logger via their own options and fall back
// to [NewNope] when none is provided.
package logger
