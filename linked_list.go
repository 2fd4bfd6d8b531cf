package condchan

import "sync"

type node[T any] struct {
	val  T
	next *node[T]
}

// nodePool holds freed nodes of every element type; entries are asserted back
// to the caller's node type and discarded on mismatch.
var nodePool = sync.Pool{}

// linkedList is a singly linked FIFO. It is not safe for concurrent use, the
// owning channel serializes access under its mutex.
type linkedList[T any] struct {
	head *node[T]
	rear *node[T]
	size int
}

func newList[T any]() *linkedList[T] {
	return &linkedList[T]{}
}

func (l *linkedList[T]) len() int { return l.size }

func (l *linkedList[T]) push(v T) {
	n, _ := nodePool.Get().(*node[T])
	if n == nil {
		n = new(node[T])
	}
	n.val = v
	n.next = nil
	if l.rear == nil {
		l.head = n
		l.rear = n
	} else {
		l.rear.next = n
		l.rear = n
	}
	l.size++
}

func (l *linkedList[T]) pop() (T, bool) {
	if l.head == nil {
		var zero T
		return zero, false
	}
	n := l.head
	if l.head == l.rear {
		l.head = nil
		l.rear = nil
	} else {
		l.head = l.head.next
	}
	l.size--
	return l.release(n), true
}

// remove unlinks the first element matching fn, reporting whether one was found.
func (l *linkedList[T]) remove(fn func(T) bool) bool {
	var prev *node[T]
	for n := l.head; n != nil; prev, n = n, n.next {
		if !fn(n.val) {
			continue
		}
		if prev == nil {
			l.head = n.next
		} else {
			prev.next = n.next
		}
		if l.rear == n {
			l.rear = prev
		}
		l.size--
		l.release(n)
		return true
	}
	return false
}

func (l *linkedList[T]) clear() {
	for n := l.head; n != nil; {
		next := n.next
		l.release(n)
		n = next
	}
	l.head = nil
	l.rear = nil
	l.size = 0
}

func (l *linkedList[T]) release(n *node[T]) T {
	var zero T
	val := n.val
	n.next = nil
	n.val = zero
	nodePool.Put(n)
	return val
}
