package condchan

import (
	"context"

	"github.com/google/uuid"
	"github.com/joeycumines/logiface"
)

// Handle is the element-type independent surface of a channel. It is what an
// owner that does not know the element type (see Holder) needs to manage the
// channel's lifecycle.
type Handle interface {
	ID() uuid.UUID
	// Cap returns the capacity the channel was made with, 0 for rendezvous.
	Cap() int
	// Len returns the number of buffered values, always 0 for rendezvous.
	Len() int
	// Close marks the channel closed and wakes every blocked goroutine.
	// Buffered values stay receivable. Calling Close more than once is a no-op.
	Close()
	IsClosed() bool
	// Done returns a channel that is closed once the channel is closed.
	Done() <-chan struct{}
	// Destroy closes the channel, waits until every goroutine that was blocked
	// inside it has returned, then drops any buffered values. It must not be
	// called from a goroutine that is itself blocked on the same channel.
	Destroy()
}

// Channel is a blocking, thread-safe FIFO used to hand values between
// goroutines. A capacity of 0 gives rendezvous semantics: Send and Receive
// complete only as a pair.
type Channel[T any] interface {
	Handle

	// Send blocks until value is accepted. It returns ErrClosed if the channel
	// is closed before that happens, in which case the value was not
	// delivered.
	Send(value T) error

	// SendContext is Send bounded by ctx. If ctx is done first, ctx.Err() is
	// returned. ErrClosed takes precedence.
	SendContext(ctx context.Context, value T) error

	// TrySend is the non-blocking form of Send, returning false if the value
	// could not be accepted immediately.
	TrySend(value T) (bool, error)

	// Receive blocks until a value is available, returning it with true.
	// Once the channel is closed and has no buffered values, it returns the
	// zero value and false.
	Receive() (T, bool)

	// ReceiveContext is Receive bounded by ctx. If ctx is done first, the
	// zero value, false and ctx.Err() are returned.
	ReceiveContext(ctx context.Context) (T, bool, error)

	// TryReceive is the non-blocking form of Receive.
	TryReceive() (T, bool)
}

// Option configures a channel made by Make (or NewHolder, Reset).
type Option func(o *options)

type options struct {
	logger *logiface.Logger[logiface.Event]
	id     uuid.UUID
}

// WithLogger sets the logger used for lifecycle events. A nil logger disables
// logging, which is also the default.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithID overrides the randomly generated channel id.
func WithID(id uuid.UUID) Option {
	return func(o *options) {
		o.id = id
	}
}

func resolveOptions(opts []Option) *options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == uuid.Nil {
		o.id = uuid.New()
	}
	return &o
}

// Make returns a new channel. A capacity of 0 selects the rendezvous variant,
// any positive capacity a bounded buffer of that size. Make panics if
// capacity is negative.
func Make[T any](capacity int, opts ...Option) Channel[T] {
	if capacity < 0 {
		panic(`condchan: negative capacity`)
	}
	o := resolveOptions(opts)
	if capacity == 0 {
		return newRendezvous[T](o)
	}
	return newBuffered[T](capacity, o)
}

// CloseChannel closes ch, if it is not nil. It is safe to call repeatedly.
func CloseChannel(ch Handle) {
	if ch != nil {
		ch.Close()
	}
}

// DestroyChannel destroys ch, if it is not nil. See Handle.Destroy.
func DestroyChannel(ch Handle) {
	if ch != nil {
		ch.Destroy()
	}
}
