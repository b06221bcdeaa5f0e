// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpscq

import "sync"

// Pooled is a non-intrusive convenience flavor over the intrusive MPSC
// core: it moves values instead of caller-owned nodes, allocating nodes
// from a sync.Pool on Enqueue and recycling them on Dequeue.
//
// Use Pooled when the caller does not want to manage node lifetime.
// Use MPSC directly when allocation on the enqueue path is unacceptable
// or when elements already live in caller-owned structures.
//
// Access pattern: multiple producers, single consumer, same as MPSC.
type Pooled[T any] struct {
	q    MPSC[T]
	pool sync.Pool
}

// NewPooled creates an initialized pooled MPSC value queue.
func NewPooled[T any]() *Pooled[T] {
	p := &Pooled[T]{
		pool: sync.Pool{New: func() any {
			return new(Node[T])
		}},
	}
	p.q.Init()
	return p
}

// Enqueue adds a value to the queue (multiple producers safe).
// The queue is unbounded; Enqueue never blocks and never fails.
func (p *Pooled[T]) Enqueue(v T) {
	n := p.pool.Get().(*Node[T])
	n.Value = v
	p.q.Push(n)
}

// Dequeue removes and returns the next value in FIFO order
// (single consumer only).
//
// Returns (zero-value, ErrWouldBlock) if the queue is empty. In-flight
// splices are resolved internally with a spin, so ErrInFlight never
// escapes. The recycled node's payload is zeroed before it returns to
// the pool so dequeued objects can be collected.
func (p *Pooled[T]) Dequeue() (T, error) {
	n, err := p.q.Pop()
	if err != nil {
		var zero T
		return zero, err
	}
	v := n.Value
	var zero T
	n.Value = zero
	p.pool.Put(n)
	return v, nil
}

// IsEmpty reports whether the queue appears empty (hint only).
func (p *Pooled[T]) IsEmpty() bool {
	return p.q.IsEmpty()
}
