// Package condchan implements a blocking, thread-safe channel, built on a
// mutex and condition variables rather than the builtin chan.
//
// Make selects the variant by capacity: 0 gives a rendezvous channel, where
// each Send completes only once paired with a Receive, and anything larger a
// bounded FIFO buffer. Parked goroutines pair in FIFO order.
//
// Close and Destroy wake every goroutine blocked inside the channel. Blocked
// and later senders fail with ErrClosed, while receivers drain buffered values
// and then observe end-of-stream as a false ok. Destroy additionally waits for
// the woken goroutines to leave the channel before dropping its buffer.
//
// Holder wraps a channel of any element type behind the Handle lifecycle
// methods, with Get as the checked typed accessor.
package condchan
