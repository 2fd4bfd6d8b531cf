package condchan

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// Holder owns a single channel of any element type, exposing its lifecycle
// without the element type. The zero value is an empty holder, see Reset.
//
// Typed access goes through the package level functions Get, HolderSend and
// HolderReceive, which fail with ErrTypeMismatch if the element type does not
// match.
type Holder struct {
	mu   sync.RWMutex
	ch   Handle
	elem reflect.Type
}

var _ Handle = (*Holder)(nil)

// NewHolder makes a channel, per Make, and wraps it in a Holder.
func NewHolder[T any](capacity int, opts ...Option) *Holder {
	h := new(Holder)
	Reset[T](h, capacity, opts...)
	return h
}

// Reset replaces the held channel with a new one of element type T, after
// destroying the previous channel (if any).
func Reset[T any](h *Holder, capacity int, opts ...Option) {
	ch := Make[T](capacity, opts...)

	h.mu.Lock()
	prev := h.ch
	h.ch = ch
	h.elem = reflect.TypeOf((*T)(nil)).Elem()
	h.mu.Unlock()

	if prev != nil {
		prev.Destroy()
	}
}

// Get returns the held channel, if it has element type T.
func Get[T any](h *Holder) (Channel[T], error) {
	h.mu.RLock()
	ch, elem := h.ch, h.elem
	h.mu.RUnlock()

	if ch == nil {
		return nil, ErrNotInitialized
	}
	typed, ok := ch.(Channel[T])
	if !ok {
		return nil, fmt.Errorf("%w: holder has %v, requested %v", ErrTypeMismatch, elem, reflect.TypeOf((*T)(nil)).Elem())
	}
	return typed, nil
}

// HolderSend sends value on the held channel, see Channel.Send.
func HolderSend[T any](h *Holder, value T) error {
	ch, err := Get[T](h)
	if err != nil {
		return err
	}
	return ch.Send(value)
}

// HolderReceive receives from the held channel, see Channel.Receive. The
// error is non-nil only if the holder is empty or of a different type.
func HolderReceive[T any](h *Holder) (T, bool, error) {
	ch, err := Get[T](h)
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := ch.Receive()
	return v, ok, nil
}

func (h *Holder) handle() Handle {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.ch
}

// IsInitialized reports whether the holder has a channel.
func (h *Holder) IsInitialized() bool { return h.handle() != nil }

// ElemType returns the element type of the held channel, or nil if empty.
func (h *Holder) ElemType() reflect.Type {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.elem
}

func (h *Holder) ID() uuid.UUID {
	if ch := h.handle(); ch != nil {
		return ch.ID()
	}
	return uuid.Nil
}

func (h *Holder) Cap() int {
	if ch := h.handle(); ch != nil {
		return ch.Cap()
	}
	return 0
}

func (h *Holder) Len() int {
	if ch := h.handle(); ch != nil {
		return ch.Len()
	}
	return 0
}

func (h *Holder) Close() {
	CloseChannel(h.handle())
}

// IsClosed reports whether the held channel is closed. An empty holder is
// considered closed.
func (h *Holder) IsClosed() bool {
	if ch := h.handle(); ch != nil {
		return ch.IsClosed()
	}
	return true
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

func (h *Holder) Done() <-chan struct{} {
	if ch := h.handle(); ch != nil {
		return ch.Done()
	}
	return closedDone
}

func (h *Holder) Destroy() {
	DestroyChannel(h.handle())
}
