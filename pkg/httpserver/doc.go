// Package httpserver runs the module's http.Server. Timeouts come from
// an env-tagged Config, shutdown is triggered by context cancellation
// or SIGINT/SIGTERM, and in-flight requests are drained within the
// configured timeout before Run returns.
package httpserver
