// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mpscq provides an intrusive, unbounded, lock-free
// multi-producer single-consumer FIFO queue.
//
// The queue is a low-level building block for messaging, task
// scheduling, and event delivery: any number of goroutines splice
// caller-owned nodes onto the insertion cursor without locking, and
// exactly one logical consumer retires them in enqueue order. The core
// performs no allocation; it only manipulates the link fields of nodes
// supplied to it, threaded through a permanently embedded stub
// (sentinel) node.
//
// # Quick Start
//
// Intrusive core (caller owns the nodes):
//
//	q := mpscq.NewMPSC[Event]()
//
//	// Producer (any goroutine)
//	q.Push(&mpscq.Node[Event]{Value: ev})
//
//	// Consumer (one goroutine)
//	n, err := q.Pop()
//	if err == nil {
//	    handle(n.Value) // n is owned by the caller again
//	}
//
// Pooled flavor (nodes managed for you):
//
//	q := mpscq.NewPooled[Event]()
//	q.Enqueue(ev)
//	ev, err := q.Dequeue()
//
// # Ownership Rules
//
// Nodes move through three states: caller-owned, queue-linked (after
// push), and caller-owned again (after retirement). While a node is
// linked the queue has exclusive right to its link field; the caller
// must not push it again, mutate it, or free it. Breaking these rules
// is undefined behavior including data corruption — the queue performs
// no checks.
//
// The stub node is embedded in the queue, never heap-allocated, never
// surrendered to callers, and recognized by identity. Because the
// cursors alias the embedded stub, an MPSC must not be copied after
// Init.
//
// # Consumer States
//
// Poll is one non-blocking step of the consumer state machine:
//
//	(node, nil)          Item:  a node was retired in FIFO order
//	(nil, ErrWouldBlock) Empty: no element and no splice in flight
//	(nil, ErrInFlight)   Retry: a producer's splice is mid-flight
//
// ErrInFlight arises in the deliberate window between a producer's head
// exchange and its link store: the node is reachable from the insertion
// cursor but not yet from the consumer's traversal. It is transient,
// bounded by the racing producer finishing its second store.
//
// Pop wraps Poll with a spin ([code.hybscloud.com/spin] CPU pause per
// retry) and only ever returns a node or ErrWouldBlock. Callers wanting
// a bounded wait, a deadline, or adaptive idling build their own loop
// over Poll:
//
//	backoff := iox.Backoff{}
//	for {
//	    n, err := q.Poll()
//	    if err == nil {
//	        backoff.Reset()
//	        handle(n)
//	        continue
//	    }
//	    backoff.Wait() // ErrInFlight and ErrWouldBlock both idle here
//	}
//
// # Batch Splicing
//
// PushUnordered links a slice of nodes and attaches the whole batch
// with a single head exchange instead of one per node:
//
//	nodes := make([]*mpscq.Node[int], 1000)
//	for i := range nodes {
//	    nodes[i] = &mpscq.Node[int]{Value: i}
//	}
//	q.PushUnordered(nodes) // dequeues as 0, 1, ..., 999
//
// PushOrdered is the underlying primitive for chains the caller has
// already linked. Batches occupy one contiguous range of the dequeue
// order; unrelated pushes are never interleaved into a batch.
//
// # Ordering Guarantees
//
// Nodes pushed sequentially by one goroutine dequeue in that order.
// Across goroutines, order is decided by how the hardware sequences the
// head exchanges — no fairness is guaranteed, and a producer can be
// overtaken arbitrarily often.
//
// # Peeking and Traversal
//
// Tail and Next iterate the currently visible chain without consuming:
//
//	for n := q.Tail(); n != nil; n = q.Next(n) {
//	    inspect(n.Value)
//	}
//
// Both are consumer-side operations under the single-consumer contract.
// Tail may permanently advance the extraction cursor past the stub; that
// side effect is visible but consumes nothing. Pushes arriving
// mid-iteration are not guaranteed to be visible, and IsEmpty is a
// composite of independent atomic reads — treat all three as
// best-effort hints, never as mutual-exclusion decisions.
//
// A length method is intentionally not provided: accurate counts in
// lock-free algorithms require expensive cross-core synchronization.
// Track counts in application logic when needed.
//
// # Embedding
//
// Init is exported so the queue can live inside caller-owned memory
// with no extra allocation:
//
//	type Mailbox struct {
//	    inbox mpscq.MPSC[Message]
//	}
//
//	func NewMailbox() *Mailbox {
//	    mb := &Mailbox{}
//	    mb.inbox.Init()
//	    return mb
//	}
//
// Init must complete before any concurrent push or poll begins.
//
// # Thread Safety
//
// Push, PushOrdered, and PushUnordered are safe from any number of
// goroutines. Poll, Pop, Tail, Next, and IsEmpty require a single
// logical consumer; serialize externally if several goroutines must
// consume. Violating the access pattern is undefined behavior.
//
// # Race Detection
//
// The queue synchronizes through sync/atomic pointer operations, which
// the race detector tracks. Stress tests instrumented with atomix
// counters use explicit memory orderings the detector cannot observe
// and are excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/spin] for CPU pause instructions in Pop's retry
// loop, and [code.hybscloud.com/atomix] for test instrumentation.
package mpscq
