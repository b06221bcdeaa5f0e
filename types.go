// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpscq

// Queue is the combined producer-consumer interface for the intrusive
// MPSC queue.
//
// The interface intentionally excludes a length method because accurate
// counts in lock-free algorithms require expensive cross-core
// synchronization. Track counts in application logic when needed;
// IsEmpty is provided as a best-effort hint only.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
}

// Producer is the interface for splicing nodes onto the queue.
//
// All Producer methods are safe to call from any number of goroutines
// concurrently. Nodes are caller-owned: a node must not be pushed while
// it is still linked into a queue, and must not be mutated by its owner
// until the consumer retires it.
type Producer[T any] interface {
	// Push splices a single node onto the queue.
	Push(n *Node[T])

	// PushOrdered splices a caller-linked chain first..last in one
	// head exchange.
	PushOrdered(first, last *Node[T])

	// PushUnordered links the nodes in slice order and splices them in
	// one head exchange. An empty slice is a no-op.
	PushUnordered(nodes []*Node[T])
}

// Consumer is the interface for retiring and inspecting nodes.
//
// All Consumer methods share the single-consumer contract: exactly one
// logical goroutine may call them at a time. Concurrent unsynchronized
// consumption is undefined behavior.
type Consumer[T any] interface {
	// Poll attempts one non-blocking retirement step.
	// Returns (node, nil), (nil, ErrWouldBlock) when empty, or
	// (nil, ErrInFlight) while a splice is mid-flight.
	Poll() (*Node[T], error)

	// Pop retires the next node, spinning through in-flight windows.
	// Returns (nil, ErrWouldBlock) when the queue is empty.
	Pop() (*Node[T], error)

	// Tail peeks at the next retirable node without consuming it.
	// May permanently advance the extraction cursor past the stub.
	Tail() *Node[T]

	// Next returns the successor of an observed node, skipping the
	// stub; nil at the end of the visible chain.
	Next(prev *Node[T]) *Node[T]

	// IsEmpty reports whether the queue appears empty (hint only).
	IsEmpty() bool
}

// ValueQueue is the combined interface for the non-intrusive pooled
// flavor, which moves values instead of caller-owned nodes.
type ValueQueue[T any] interface {
	ValueProducer[T]
	ValueConsumer[T]

	// IsEmpty reports whether the queue appears empty (hint only).
	IsEmpty() bool
}

// ValueProducer enqueues values (multiple producers safe).
type ValueProducer[T any] interface {
	// Enqueue adds a value to the queue. The queue is unbounded, so
	// Enqueue always succeeds and never blocks.
	Enqueue(v T)
}

// ValueConsumer dequeues values (single consumer only).
type ValueConsumer[T any] interface {
	// Dequeue removes and returns the next value in FIFO order.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty;
	// in-flight splices are resolved internally.
	Dequeue() (T, error)
}
