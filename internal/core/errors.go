package core

import "errors"

var (
	// ErrClientNotFound is reported when an id does not map to any room.
	ErrClientNotFound = errors.New("client not found")
	// ErrOutboxClosed is returned by Push after the worker went away.
	ErrOutboxClosed = errors.New("outbox closed")
	// ErrHubStopped is returned when submitting to a hub whose Run has exited.
	ErrHubStopped = errors.New("hub stopped")
)
