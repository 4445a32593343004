package httpserver

import "errors"

var (
	// ErrServe indicates the listener could not be started or failed while serving.
	ErrServe = errors.New("http server failed")
	// ErrShutdown indicates in-flight requests were not drained within the shutdown timeout.
	ErrShutdown = errors.New("http server shutdown incomplete")
)
