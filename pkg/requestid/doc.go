// Package requestid correlates log lines and responses by request. The
// middleware reuses a well-formed X-Request-ID header or generates a
// UUID, stores it in the request context, and echoes it back to the
// client; LoggerExtractor feeds it to the logger.
package requestid
