// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpscq

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// Node is an intrusive queue element carrying an opaque payload.
//
// The caller allocates and owns the node. While the node is linked into
// a queue, the queue has exclusive right to mutate its link field; the
// caller must not push the node again or free it until it has been
// retired by the consumer. Ownership reverts to whoever receives the
// node from Poll, Pop, or traversal.
type Node[T any] struct {
	next atomic.Pointer[Node[T]]

	// Value is the caller-supplied payload. The queue never inspects it.
	Value T
}

// Link sets n's successor, for assembling a chain to hand to
// PushOrdered. It must only be called on nodes that are not currently
// linked into a queue; PushUnordered links slice batches without it.
func (n *Node[T]) Link(next *Node[T]) {
	n.next.Store(next)
}

// MPSC is an intrusive, unbounded multi-producer single-consumer queue.
//
// Any number of goroutines may push concurrently. Exactly one logical
// goroutine may consume (Poll, Pop, Tail, Next); callers needing more
// must serialize consumption externally. Violating the single-consumer
// contract causes undefined behavior including data corruption.
//
// The queue allocates nothing: it links caller-owned nodes through a
// permanently embedded stub (sentinel) node. Because the cursors alias
// the embedded stub, an MPSC must not be copied after Init.
//
// The zero value is not ready for use; call Init (or use NewMPSC).
type MPSC[T any] struct {
	_    pad
	head atomic.Pointer[Node[T]] // Insertion cursor: most recently spliced node (producers Swap)
	_    pad
	tail *Node[T] // Extraction cursor: next node the consumer examines (consumer only)
	_    pad
	stub Node[T] // Embedded sentinel, never surrendered to callers
	_    pad
}

// NewMPSC creates an initialized intrusive MPSC queue.
func NewMPSC[T any]() *MPSC[T] {
	q := new(MPSC[T])
	q.Init()
	return q
}

// Init prepares the queue for use: both cursors reference the embedded
// stub and the stub has no successor.
//
// Init exists so the queue can be embedded in caller-owned memory
// without a separate allocation. It must run to completion before any
// concurrent push or poll begins; it is not itself safe to race.
func (q *MPSC[T]) Init() {
	q.stub.next.Store(nil)
	q.head.Store(&q.stub)
	q.tail = &q.stub
}

// Push splices a single node onto the queue (multiple producers safe).
//
// The node must not be linked into any queue and must not be touched by
// the caller again until the consumer retires it.
func (q *MPSC[T]) Push(n *Node[T]) {
	q.PushOrdered(n, n)
}

// PushOrdered splices a pre-linked chain of nodes, first through last,
// onto the queue in one head exchange (multiple producers safe).
//
// The chain first..last must already be linked in order by the caller.
// Between the head exchange and the link store the chain is reachable
// from the insertion cursor but not yet from the consumer's traversal;
// the consumer's state machine reports this window as ErrInFlight.
func (q *MPSC[T]) PushOrdered(first, last *Node[T]) {
	last.next.Store(nil)

	// The exchange must be one atomic swap. An independent load followed
	// by a store would let two producers observe the same predecessor
	// and silently drop one chain.
	prev := q.head.Swap(last)

	prev.next.Store(first)
}

// PushUnordered links the given nodes in slice order and splices them
// onto the queue in one head exchange (multiple producers safe).
//
// Compared to repeated Push calls this performs one exchange instead of
// len(nodes), at the cost of not being individually retryable per node.
// The batch occupies one contiguous range of the dequeue order. An
// empty slice is a no-op.
func (q *MPSC[T]) PushUnordered(nodes []*Node[T]) {
	if len(nodes) == 0 {
		return
	}
	for i := 0; i < len(nodes)-1; i++ {
		nodes[i].next.Store(nodes[i+1])
	}
	q.PushOrdered(nodes[0], nodes[len(nodes)-1])
}

// Poll attempts to retire the next node (single consumer only).
//
// Poll is a single, non-blocking step of the consumer state machine:
//
//	(node, nil)          an element was retired in FIFO order
//	(nil, ErrWouldBlock) the queue is empty
//	(nil, ErrInFlight)   a producer's splice is mid-flight; poll again
//
// ErrInFlight is a control flow signal, not a failure: the racing
// producer has already made its node reachable from the insertion
// cursor and only the link store is outstanding. Callers choose the
// retry policy; Pop provides the built-in spin.
func (q *MPSC[T]) Poll() (*Node[T], error) {
	tail := q.tail
	next := tail.next.Load()

	if tail == &q.stub {
		if next == nil {
			if q.head.Load() != tail {
				// A splice targeting the stub's successor is in flight.
				return nil, ErrInFlight
			}
			return nil, ErrWouldBlock
		}
		// Step over the sentinel; it is never surrendered to callers.
		q.tail = next
		tail.next.Store(nil)
		tail = next
		next = tail.next.Load()
	}

	if next != nil {
		q.tail = next
		tail.next.Store(nil)
		return tail, nil
	}

	head := q.head.Load()
	if tail != head {
		// tail has a successor that is not yet link-reachable.
		return nil, ErrInFlight
	}

	// tail is the last node. Splice the stub behind it as a filler so
	// the node can be unlinked without waiting for another real push.
	q.Push(&q.stub)

	next = tail.next.Load()
	if next != nil {
		q.tail = next
		tail.next.Store(nil)
		return tail, nil
	}
	// Another producer won the exchange between the head read and the
	// stub splice and has not linked yet.
	return nil, ErrInFlight
}

// Pop retires the next node, spinning through in-flight windows
// (single consumer only).
//
// Pop loops on ErrInFlight with a CPU pause per iteration; the wait is
// bounded by the slowest racing producer finishing its two-step splice.
// Returns (nil, ErrWouldBlock) when the queue is empty. Callers wanting
// a bounded wait or custom backoff should loop over Poll instead.
func (q *MPSC[T]) Pop() (*Node[T], error) {
	sw := spin.Wait{}
	for {
		n, err := q.Poll()
		if IsInFlight(err) {
			sw.Once()
			continue
		}
		return n, err
	}
}

// Tail peeks at the next retirable node without consuming it
// (single consumer only).
//
// Returns nil if the queue is empty or the stub's successor has not
// landed yet. When the extraction cursor currently rests on the stub
// and a successor is available, Tail permanently advances the cursor
// past the stub; this visible side effect matches the first branch of
// Poll and does not consume any element.
func (q *MPSC[T]) Tail() *Node[T] {
	tail := q.tail
	if tail != &q.stub {
		return tail
	}
	next := tail.next.Load()
	if next == nil {
		return nil
	}
	q.tail = next
	tail.next.Store(nil)
	return next
}

// Next returns the successor of a previously observed node,
// transparently skipping the stub if it sits mid-chain
// (single consumer only).
//
// Returns nil at the end of the visible chain or when the successor's
// link store has not landed yet. Together with Tail this iterates the
// current snapshot of queued nodes without consuming them; pushes that
// arrive mid-iteration are not guaranteed to be visible.
func (q *MPSC[T]) Next(prev *Node[T]) *Node[T] {
	next := prev.next.Load()
	if next == &q.stub {
		next = next.next.Load()
	}
	return next
}

// IsEmpty reports whether the queue appears empty.
//
// This is a best-effort composite of three independent atomic reads,
// not a single snapshot: under concurrent pushes it may transiently be
// stale. Use it as a hint only, never for mutual-exclusion decisions.
func (q *MPSC[T]) IsEmpty() bool {
	tail := q.tail
	return tail == &q.stub && tail.next.Load() == nil && q.head.Load() == tail
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
