// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration and helper attribute constructors
// that keep attribute names consistent across the search client packages.
//
// New builds a *slog.Logger writing JSON (default) or text. The handler is wrapped so
// that ContextExtractor callbacks can inject attributes from context.Context; the request
// id stored with ContextWithRequestID is always extracted.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithService("geoindex"),
//	    logger.WithLevel(slog.LevelDebug),
//	)
//	logger.SetAsDefault(log)
//
//	ctx := logger.ContextWithRequestID(ctx, id)
//	log.WarnContext(ctx, "request to endpoint failed",
//	    logger.Endpoint(ep),
//	    logger.RetryCount(attempt),
//	    logger.Error(err),
//	)
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error value is non-nil,
// so they can be passed unconditionally.
package logger
