package condchan

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/joeycumines/logiface"
)

// core is the state machine shared by every channel variant. All fields below
// mu are guarded by it.
type core struct {
	id     uuid.UUID
	logger *logiface.Logger[logiface.Event]
	done   *stopChan

	mu sync.Mutex
	// senders wait on notFull, receivers on notEmpty
	notFull  sync.Cond
	notEmpty sync.Cond
	// quiet is broadcast when the last parked goroutine leaves a closed channel
	quiet     sync.Cond
	closed    bool
	destroyed bool
	waiters   int
}

func (c *core) init(o *options) {
	c.id = o.id
	c.logger = o.logger
	c.done = newStopChan()
	c.notFull.L = &c.mu
	c.notEmpty.L = &c.mu
	c.quiet.L = &c.mu
}

func (c *core) ID() uuid.UUID { return c.id }

func (c *core) Done() <-chan struct{} { return c.done.C() }

func (c *core) IsClosed() bool { return c.done.IsStopped() }

// wait parks on cond. c.mu must be held.
func (c *core) wait(cond *sync.Cond) {
	c.waiters++
	cond.Wait()
	c.waiters--
	if c.closed && c.waiters == 0 {
		c.quiet.Broadcast()
	}
}

// closeLocked marks the channel closed and wakes everything parked in it,
// reporting whether this call performed the transition. c.mu must be held.
func (c *core) closeLocked() bool {
	if c.closed {
		return false
	}
	c.closed = true
	c.done.Stop()
	c.notFull.Broadcast()
	c.notEmpty.Broadcast()
	return true
}

// destroyLocked closes the channel then waits until every goroutine parked
// inside it has left, reporting the number it had to wait for, and whether
// this call performed the destruction. c.mu must be held.
func (c *core) destroyLocked() (parked int, first bool) {
	c.closeLocked()
	parked = c.waiters
	for c.waiters > 0 {
		c.quiet.Wait()
	}
	if c.destroyed {
		return parked, false
	}
	c.destroyed = true
	return parked, true
}

// watch arranges for both conds to be broadcast once ctx is done, so that any
// context-aware wait re-checks ctx.Err. The returned func must be called once
// the wait is over.
func (c *core) watch(ctx context.Context) (stop func() bool) {
	if ctx.Done() == nil {
		return func() bool { return true }
	}
	return context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.notFull.Broadcast()
		c.notEmpty.Broadcast()
		c.mu.Unlock()
	})
}

func (c *core) logClosed(kind string, capacity, pending, parked int) {
	c.logger.Debug().
		Str(`channel`, c.id.String()).
		Str(`kind`, kind).
		Int(`cap`, capacity).
		Int(`pending`, pending).
		Int(`parked`, parked).
		Log(`channel closed`)
}

func (c *core) logDestroyed(kind string, dropped, parked int) {
	c.logger.Debug().
		Str(`channel`, c.id.String()).
		Str(`kind`, kind).
		Int(`dropped`, dropped).
		Int(`parked`, parked).
		Log(`channel destroyed`)
}
