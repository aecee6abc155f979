package eventbus

import "errors"

var (
	// ErrPublishFailed wraps a Redis publish failure.
	ErrPublishFailed = errors.New("failed to publish event")

	// ErrMarshalFailed wraps an event JSON-encoding failure.
	ErrMarshalFailed = errors.New("failed to marshal event")
)
