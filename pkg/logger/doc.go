// Package logger builds slog loggers with consistent formatting and
// context-aware attribute injection.
//
// New constructs a *slog.Logger writing JSON (production) or text
// (development) records. Context extractors registered with
// WithContextExtractors pull request-scoped values — such as the active
// tenant ID — out of the context and attach them to every record logged
// through *Context methods:
//
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithContextExtractors(tenant.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "connection acquired") // includes tenant_id
package logger
