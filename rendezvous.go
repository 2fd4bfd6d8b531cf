package condchan

import (
	"context"
)

// handoff is a parked sender or receiver of a rendezvous channel. A sender's
// handoff carries the value; a receiver's is filled in by the sender that
// pairs with it.
type handoff[T any] struct {
	val    T
	paired bool
}

// rendezvous is the capacity 0 variant. Parked senders and receivers are kept
// in FIFO order and the oldest of each pairs first.
type rendezvous[T any] struct {
	core
	senders   *linkedList[*handoff[T]]
	receivers *linkedList[*handoff[T]]
}

func newRendezvous[T any](o *options) *rendezvous[T] {
	r := &rendezvous[T]{
		senders:   newList[*handoff[T]](),
		receivers: newList[*handoff[T]](),
	}
	r.init(o)
	return r
}

func (r *rendezvous[T]) Cap() int { return 0 }

func (r *rendezvous[T]) Len() int { return 0 }

func (r *rendezvous[T]) Send(value T) error {
	return r.SendContext(context.Background(), value)
}

func (r *rendezvous[T]) SendContext(ctx context.Context, value T) error {
	defer r.watch(ctx)()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.giveLocked(value) {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	h := &handoff[T]{val: value}
	r.senders.push(h)
	for !h.paired && !r.closed {
		if ctx.Err() != nil {
			break
		}
		r.wait(&r.notFull)
	}

	switch {
	case h.paired:
		return nil
	case r.closed:
		return ErrClosed
	default:
		r.senders.remove(func(v *handoff[T]) bool { return v == h })
		return ctx.Err()
	}
}

func (r *rendezvous[T]) TrySend(value T) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrClosed
	}
	return r.giveLocked(value), nil
}

func (r *rendezvous[T]) Receive() (T, bool) {
	v, ok, _ := r.ReceiveContext(context.Background())
	return v, ok
}

func (r *rendezvous[T]) ReceiveContext(ctx context.Context) (T, bool, error) {
	defer r.watch(ctx)()

	r.mu.Lock()
	defer r.mu.Unlock()

	var zero T
	if v, ok := r.takeLocked(); ok {
		return v, true, nil
	}
	if r.closed {
		return zero, false, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	h := new(handoff[T])
	r.receivers.push(h)
	for !h.paired && !r.closed {
		if ctx.Err() != nil {
			break
		}
		r.wait(&r.notEmpty)
	}

	switch {
	case h.paired:
		return h.val, true, nil
	case r.closed:
		return zero, false, nil
	default:
		r.receivers.remove(func(v *handoff[T]) bool { return v == h })
		return zero, false, ctx.Err()
	}
}

func (r *rendezvous[T]) TryReceive() (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.takeLocked()
}

func (r *rendezvous[T]) Close() {
	r.mu.Lock()
	parked, pending := r.waiters, r.senders.len()
	closed := r.closeLocked()
	if closed {
		r.senders.clear()
		r.receivers.clear()
	}
	r.mu.Unlock()

	if closed {
		r.logClosed(`rendezvous`, 0, pending, parked)
	}
}

func (r *rendezvous[T]) Destroy() {
	r.mu.Lock()
	var dropped int
	if !r.closed {
		// queues must be cleared by whoever closes
		dropped = r.senders.len()
		r.closeLocked()
		r.senders.clear()
		r.receivers.clear()
	}
	parked, first := r.destroyLocked()
	r.mu.Unlock()

	if first {
		r.logDestroyed(`rendezvous`, dropped, parked)
	}
}

// giveLocked hands value to the oldest parked receiver, if any. r.mu must be
// held.
func (r *rendezvous[T]) giveLocked(value T) bool {
	h, ok := r.receivers.pop()
	if !ok {
		return false
	}
	h.val = value
	h.paired = true
	r.notEmpty.Broadcast()
	return true
}

// takeLocked claims the value of the oldest parked sender, if any. r.mu must
// be held.
func (r *rendezvous[T]) takeLocked() (T, bool) {
	h, ok := r.senders.pop()
	if !ok {
		var zero T
		return zero, false
	}
	v := h.val
	h.paired = true
	r.notFull.Broadcast()
	return v, true
}
