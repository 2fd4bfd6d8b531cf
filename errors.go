package condchan

import "errors"

var (
	// ErrClosed is returned by any send on a channel that has been closed or
	// destroyed, including a send that was still waiting when the close
	// happened. Producers should treat it as a normal shutdown signal.
	ErrClosed = errors.New("condchan: channel closed")

	// ErrTypeMismatch is returned by the typed accessors of Holder when the
	// requested element type differs from the held channel's element type.
	ErrTypeMismatch = errors.New("condchan: element type mismatch")

	// ErrNotInitialized is returned by the typed accessors of an empty Holder.
	ErrNotInitialized = errors.New("condchan: holder not initialized")
)
