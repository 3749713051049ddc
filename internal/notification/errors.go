package notification

import (
	"errors"
)

// Delivery failures. Senders wrap one of the first three so the orchestrator can decide
// whether the failure takes part in the retry cycle.
var (
	// ErrChannelUnavailable means the recipient lacks contact info for the channel or the
	// channel's gateway is not configured. It counts against the retry budget.
	ErrChannelUnavailable = errors.New("channel unavailable")
	// ErrTransportFailure is a transient gateway or network error. It is retried.
	ErrTransportFailure = errors.New("transport failure")
	// ErrUnsupportedChannel means no sender is registered for the channel. It is never retried.
	ErrUnsupportedChannel = errors.New("unsupported channel")
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrRecipientNotFound    = errors.New("recipient not found")
	ErrInvalidChannel       = errors.New("invalid notification channel")
	ErrInvalidPriority      = errors.New("invalid notification priority")
	ErrInvalidStatus        = errors.New("invalid notification status")
	ErrMissingContent       = errors.New("notification title and message are required")
	ErrInvalidMaxRetries    = errors.New("max_retries must be between 0 and 10")
)
