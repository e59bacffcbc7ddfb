package actor

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceUnavailable is returned to callers when the Server is gone.
	ErrServiceUnavailable = errors.New("actor: service unavailable")

	// ErrCallAbandoned means the caller stopped waiting; a result produced
	// for it is discarded.
	ErrCallAbandoned = errors.New("actor: call abandoned, result discarded")

	// ErrReplyFulfilled is returned by a second Fulfill of the same slot.
	ErrReplyFulfilled = errors.New("actor: reply already fulfilled")

	// ErrChannelClosed is returned by Recv once every Sender is closed and
	// the queue is drained.
	ErrChannelClosed = errors.New("actor: channel closed")

	ErrAlreadyServing   = errors.New("actor: receiver is already being served")
	ErrUnhandledMessage = errors.New("actor: unhandled message")
)

// UnhandledMessage reports a message no dispatch case matched.
func UnhandledMessage(m any) error {
	return fmt.Errorf("%w: %T", ErrUnhandledMessage, m)
}

func abandoned(cause error) error {
	return fmt.Errorf("%w: %w", ErrCallAbandoned, cause)
}
