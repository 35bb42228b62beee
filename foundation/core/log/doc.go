// Package log provides structured logging for the ForSure packages and tools.
//
// Package: log
// Title: Structured Logging
// Description: Leveled logging with persistent context fields, JSON, text,
//              console and logfmt output, performance timers and integration
//              with the structured error package.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-02
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-02 v0.1.0: Initial implementation
// - 2026-10-12 v0.2.0: Shared write lock, stderr default
//
// Usage:
//
//	import fslog "github.com/msto63/forsure/foundation/core/log"
//
//	logger := fslog.New().
//		WithLevel(fslog.LevelDebug).
//		WithFormat(fslog.FormatJSON).
//		WithField("component", "materializer")
//
//	logger.Info("Directory created", fslog.Field("path", "src"))
//	logger.Warn("Unknown attribute", fslog.Fields{"key": "mode", "line": 4})
//
//	timer := logger.StartTimer("parse")
//	defer timer.Stop()
package log
