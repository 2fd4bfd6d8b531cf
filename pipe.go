package condchan

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Pipe forwards values from one channel to another on its own goroutine.
type Pipe interface {
	// Len returns the number of values forwarded so far.
	Len() uint64
	// Break halts forwarding, without closing either channel. A value that
	// was received but not yet sent is dropped.
	Break()
	// Done returns a channel that is closed once forwarding has stopped,
	// either after Break, or once src is drained (dst is then closed), or
	// once dst is closed (src is then closed).
	Done() <-chan struct{}
	// Err returns ErrClosed if the pipe stopped because dst was closed while
	// a value was in flight, otherwise nil. Only valid after Done.
	Err() error
}

type pipeImpl[T any] struct {
	src, dst  Channel[T]
	ctx       context.Context
	cancel    context.CancelFunc
	doneC     chan struct{}
	forwarded atomic.Uint64
	err       error
	logger    *logiface.Logger[logiface.Event]
}

// NewPipe starts forwarding from src to dst, preserving order. Only the
// WithLogger option is used. Panics if either channel is nil.
func NewPipe[T any](src, dst Channel[T], opts ...Option) Pipe {
	if src == nil || dst == nil {
		panic(`condchan: nil pipe channel`)
	}
	o := resolveOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	p := &pipeImpl[T]{
		src:    src,
		dst:    dst,
		ctx:    ctx,
		cancel: cancel,
		doneC:  make(chan struct{}),
		logger: o.logger,
	}
	go p.transport()
	return p
}

func (p *pipeImpl[T]) Len() uint64 { return p.forwarded.Load() }

func (p *pipeImpl[T]) Break() { p.cancel() }

func (p *pipeImpl[T]) Done() <-chan struct{} { return p.doneC }

func (p *pipeImpl[T]) Err() error {
	select {
	case <-p.doneC:
		return p.err
	default:
		return nil
	}
}

func (p *pipeImpl[T]) transport() {
	defer func() {
		p.cancel()
		b := p.logger.Debug().
			Str(`src`, p.src.ID().String()).
			Str(`dst`, p.dst.ID().String()).
			Int(`forwarded`, int(p.forwarded.Load()))
		if p.err != nil {
			b = b.Err(p.err)
		}
		b.Log(`pipe exited`)
		close(p.doneC)
	}()
	for {
		v, ok, err := p.src.ReceiveContext(p.ctx)
		if err != nil {
			return
		}
		if !ok {
			p.dst.Close()
			return
		}
		if err := p.dst.SendContext(p.ctx, v); err != nil {
			if errors.Is(err, ErrClosed) {
				p.err = err
				p.src.Close()
			}
			return
		}
		p.forwarded.Add(1)
	}
}
