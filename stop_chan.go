package condchan

import (
	"sync"
	"sync/atomic"
)

// stopChan is a one-shot broadcast signal. It is fired exactly once, by the
// first Close, and may be observed without taking the channel mutex.
type stopChan struct {
	ch        chan struct{}
	closeOnce sync.Once
	stopped   atomic.Bool
}

func newStopChan() *stopChan {
	return &stopChan{ch: make(chan struct{})}
}

func (sc *stopChan) C() <-chan struct{} { return sc.ch }

// Stop fires the signal, reporting whether this call was the one that did it.
func (sc *stopChan) Stop() bool {
	var stopThisTime bool
	sc.closeOnce.Do(func() {
		sc.stopped.Store(true)
		close(sc.ch)
		stopThisTime = true
	})
	return stopThisTime
}

func (sc *stopChan) IsStopped() bool { return sc.stopped.Load() }
