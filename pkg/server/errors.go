package server

import "errors"

var (
	// ErrRequestTooLarge describes a request body that exceeds the
	// configured MaxRequestBodySize. decodeJSON does not return it: an
	// oversized body surfaces as http.MaxBytesReader's own error.
	ErrRequestTooLarge = errors.New("request body too large")

	// ErrTooManyNodes / ErrTooManyEdges enforce config.Config's resource
	// limits before a spec ever reaches the graph builder.
	ErrTooManyNodes = errors.New("workflow exceeds the configured node limit")
	ErrTooManyEdges = errors.New("workflow exceeds the configured edge limit")

	// ErrRateLimited is returned by the rate limiter middleware.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrEventsUnavailable is returned by the event-stream endpoint when no
	// eventbus.Subscriber was configured.
	ErrEventsUnavailable = errors.New("workflow event streaming is not configured")
)
