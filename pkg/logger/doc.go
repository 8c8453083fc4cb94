// Package logger provides a context-aware factory around Go's slog package.
//
// New creates a *slog.Logger configured by Option functions: output format
// (text or json), minimum level, static attributes and ContextExtractor
// callbacks that pull request-scoped values (request id, authenticated
// account id) out of context.Context each time a record is handled.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler based on the
// configured Format and wraps it with LogHandlerDecorator, which runs the
// registered extractors before delegating to the underlying handler.
//
// Helper constructors in attr.go (Error, UserID, RequestID, Reason, ...)
// keep attribute keys consistent across packages.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Env, cfg.Name),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "login succeeded", logger.UserID(id), logger.Event("login"))
//
// Services that accept a logger option default to Discard.
package logger
