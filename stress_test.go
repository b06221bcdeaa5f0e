// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Concurrency tests for the intrusive queue.
//
// The queue itself synchronizes through sync/atomic, which the race
// detector tracks. Tests in this file that are instrumented with atomix
// counters skip under race builds: atomix establishes happens-before
// through explicit memory orderings the detector cannot observe.

package mpscq_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/mpscq"
)

// TestConcurrentProducersConservation pushes 1000 nodes from three
// producers (500/250/250) with no consumption until all finish, then
// drains: exactly 1000 distinct nodes, no duplicates, no omissions,
// and per-producer FIFO order.
func TestConcurrentProducersConservation(t *testing.T) {
	q := mpscq.NewMPSC[int]()
	counts := []int{500, 250, 250}
	total := 1000

	var wg sync.WaitGroup
	for id, count := range counts {
		wg.Add(1)
		go func(id, count int) {
			defer wg.Done()
			for seq := range count {
				q.Push(&mpscq.Node[int]{Value: id*1_000_000 + seq})
			}
		}(id, count)
	}
	wg.Wait()

	seen := make(map[int]bool, total)
	lastSeq := []int{-1, -1, -1}
	drained := 0
	for {
		n, err := q.Pop()
		if mpscq.IsWouldBlock(err) {
			break
		}
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if seen[n.Value] {
			t.Fatalf("duplicate node value %d", n.Value)
		}
		seen[n.Value] = true

		id, seq := n.Value/1_000_000, n.Value%1_000_000
		if seq <= lastSeq[id] {
			t.Fatalf("producer %d order violated: seq %d after %d", id, seq, lastSeq[id])
		}
		lastSeq[id] = seq
		drained++
	}

	if drained != total {
		t.Fatalf("drained: got %d, want %d", drained, total)
	}
	if !q.IsEmpty() {
		t.Fatal("IsEmpty after drain: got false, want true")
	}
}

// TestConcurrentBatchProducers mixes single pushes and unordered
// batches from several producers and verifies conservation plus
// contiguity of each batch in the dequeue order.
func TestConcurrentBatchProducers(t *testing.T) {
	q := mpscq.NewMPSC[int]()
	const producers = 4
	const batches = 50
	const batchSize = 10
	total := producers * batches * batchSize

	var wg sync.WaitGroup
	for id := range producers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for b := range batches {
				nodes := make([]*mpscq.Node[int], batchSize)
				for i := range nodes {
					nodes[i] = &mpscq.Node[int]{
						Value: id*1_000_000 + b*batchSize + i,
					}
				}
				q.PushUnordered(nodes)
			}
		}(id)
	}
	wg.Wait()

	drained := 0
	pending := 0 // position inside the batch currently being drained
	var cur int  // first value of that batch
	for {
		n, err := q.Pop()
		if mpscq.IsWouldBlock(err) {
			break
		}
		if err != nil {
			t.Fatalf("Pop: %v", err)
		}
		if pending == 0 {
			if n.Value%batchSize != 0 {
				t.Fatalf("batch starts mid-range at value %d", n.Value)
			}
			cur = n.Value
		} else if n.Value != cur+pending {
			t.Fatalf("batch not contiguous: got %d, want %d", n.Value, cur+pending)
		}
		pending = (pending + 1) % batchSize
		drained++
	}

	if drained != total {
		t.Fatalf("drained: got %d, want %d", drained, total)
	}
	if pending != 0 {
		t.Fatalf("last batch truncated at offset %d", pending)
	}
}

// TestLiveConsumer runs producers against a concurrently polling
// consumer and verifies conservation and per-producer order under
// contention.
func TestLiveConsumer(t *testing.T) {
	if mpscq.RaceEnabled {
		t.Skip("skip: atomix counters use memory orderings invisible to the race detector")
	}

	q := mpscq.NewMPSC[int]()
	const producers = 4
	const perProducer = 5000
	const total = producers * perProducer

	var wg sync.WaitGroup
	for id := range producers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for seq := range perProducer {
				q.Push(&mpscq.Node[int]{Value: id*1_000_000 + seq})
			}
		}(id)
	}

	lastSeq := make([]int, producers)
	for i := range lastSeq {
		lastSeq[i] = -1
	}

	var consumed atomix.Int64
	var retries atomix.Int64
	backoff := iox.Backoff{}
	for consumed.Load() < total {
		n, err := q.Poll()
		if err == nil {
			id, seq := n.Value/1_000_000, n.Value%1_000_000
			if seq <= lastSeq[id] {
				t.Fatalf("producer %d order violated: seq %d after %d", id, seq, lastSeq[id])
			}
			lastSeq[id] = seq
			consumed.Add(1)
			backoff.Reset()
			continue
		}
		if mpscq.IsInFlight(err) {
			retries.Add(1)
		}
		backoff.Wait()
	}
	wg.Wait()

	if !q.IsEmpty() {
		t.Fatal("IsEmpty after consuming everything: got false, want true")
	}
	if _, err := q.Poll(); !mpscq.IsWouldBlock(err) {
		t.Fatalf("Poll after drain: got %v, want ErrWouldBlock", err)
	}
	t.Logf("consumed %d nodes, observed %d in-flight windows", consumed.Load(), retries.Load())
}

// TestRetryTransient verifies that once producers are quiescent no
// in-flight state can be observed: the drain terminates in Empty after
// finitely many Items, never an ErrInFlight stream.
func TestRetryTransient(t *testing.T) {
	if mpscq.RaceEnabled {
		t.Skip("skip: atomix counters use memory orderings invisible to the race detector")
	}

	q := mpscq.NewMPSC[int]()
	const producers = 8
	const perProducer = 2000

	var inFlight atomix.Int64
	var wg sync.WaitGroup
	done := make(chan struct{})

	// Consumer polls concurrently, counting in-flight observations but
	// not draining to completion.
	var consumerWg sync.WaitGroup
	consumerWg.Add(1)
	go func() {
		defer consumerWg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, err := q.Poll(); mpscq.IsInFlight(err) {
				inFlight.Add(1)
			}
		}
	}()

	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seq := range perProducer {
				q.Push(&mpscq.Node[int]{Value: seq})
			}
		}()
	}
	wg.Wait()
	close(done)
	consumerWg.Wait()

	// Producers are quiescent: every splice has landed, so the drain
	// must never report an in-flight window again.
	for {
		_, err := q.Pop()
		if err == nil {
			continue
		}
		if !mpscq.IsWouldBlock(err) {
			t.Fatalf("drain under quiescence: got %v, want ErrWouldBlock", err)
		}
		break
	}
	if _, err := q.Poll(); !mpscq.IsWouldBlock(err) {
		t.Fatalf("Poll under quiescence: got %v, want ErrWouldBlock", err)
	}
	t.Logf("observed %d in-flight windows while producers were live", inFlight.Load())
}

// TestPooledLiveConsumer exercises the pooled flavor under concurrent
// producers with node recycling in flight.
func TestPooledLiveConsumer(t *testing.T) {
	if mpscq.RaceEnabled {
		t.Skip("skip: atomix counters use memory orderings invisible to the race detector")
	}

	q := mpscq.NewPooled[int]()
	const producers = 4
	const perProducer = 5000
	const total = producers * perProducer

	var wg sync.WaitGroup
	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for seq := range perProducer {
				q.Enqueue(seq)
			}
		}()
	}

	var sum atomix.Int64
	backoff := iox.Backoff{}
	for consumed := 0; consumed < total; {
		v, err := q.Dequeue()
		if err == nil {
			sum.Add(int64(v))
			consumed++
			backoff.Reset()
			continue
		}
		backoff.Wait()
	}
	wg.Wait()

	want := int64(producers) * int64(perProducer-1) * int64(perProducer) / 2
	if sum.Load() != want {
		t.Fatalf("payload sum: got %d, want %d", sum.Load(), want)
	}
	if !q.IsEmpty() {
		t.Fatal("IsEmpty after drain: got false, want true")
	}
}
