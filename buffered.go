package condchan

import (
	"context"
)

// buffered is the bounded FIFO variant, backed by a ring buffer.
type buffered[T any] struct {
	core
	buf   []T
	head  int
	count int
	size  int
}

func newBuffered[T any](capacity int, o *options) *buffered[T] {
	b := &buffered[T]{buf: make([]T, capacity), size: capacity}
	b.init(o)
	return b
}

func (b *buffered[T]) Cap() int { return b.size }

func (b *buffered[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *buffered[T]) Send(value T) error {
	return b.SendContext(context.Background(), value)
}

func (b *buffered[T]) SendContext(ctx context.Context, value T) error {
	defer b.watch(ctx)()

	b.mu.Lock()
	defer b.mu.Unlock()

	for !b.closed && b.count == len(b.buf) {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.wait(&b.notFull)
	}
	if b.closed {
		return ErrClosed
	}

	b.enqueue(value)
	return nil
}

func (b *buffered[T]) TrySend(value T) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false, ErrClosed
	}
	if b.count == len(b.buf) {
		return false, nil
	}
	b.enqueue(value)
	return true, nil
}

func (b *buffered[T]) Receive() (T, bool) {
	v, ok, _ := b.ReceiveContext(context.Background())
	return v, ok
}

func (b *buffered[T]) ReceiveContext(ctx context.Context) (T, bool, error) {
	defer b.watch(ctx)()

	b.mu.Lock()
	defer b.mu.Unlock()

	for !b.closed && b.count == 0 {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, false, err
		}
		b.wait(&b.notEmpty)
	}

	// drain whatever is buffered, even once closed
	if b.count != 0 {
		return b.dequeue(), true, nil
	}
	var zero T
	return zero, false, nil
}

func (b *buffered[T]) TryReceive() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.count == 0 {
		var zero T
		return zero, false
	}
	return b.dequeue(), true
}

func (b *buffered[T]) Close() {
	b.mu.Lock()
	closed := b.closeLocked()
	buffered, parked := b.count, b.waiters
	b.mu.Unlock()

	if closed {
		b.logClosed(`buffered`, b.size, buffered, parked)
	}
}

func (b *buffered[T]) Destroy() {
	b.mu.Lock()
	parked, first := b.destroyLocked()
	dropped := b.count
	if first {
		b.buf = nil
		b.head = 0
		b.count = 0
	}
	b.mu.Unlock()

	if first {
		b.logDestroyed(`buffered`, dropped, parked)
	}
}

// enqueue appends value and wakes one receiver. b.mu must be held and the
// buffer must have space.
func (b *buffered[T]) enqueue(value T) {
	b.buf[(b.head+b.count)%len(b.buf)] = value
	b.count++
	b.notEmpty.Signal()
}

// dequeue removes the oldest value and wakes one sender. b.mu must be held
// and the buffer must be non-empty.
func (b *buffered[T]) dequeue() T {
	var zero T
	v := b.buf[b.head]
	b.buf[b.head] = zero
	b.head = (b.head + 1) % len(b.buf)
	b.count--
	b.notFull.Signal()
	return v
}
