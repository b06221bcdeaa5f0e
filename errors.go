// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpscq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the queue has no retirable element.
//
// For Poll and Pop: the queue is genuinely empty — no element is
// linked and no splice is in flight.
//
// ErrWouldBlock is a control flow signal, not a failure. The caller
// should retry later (with backoff or yield) rather than propagating
// the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    n, err := q.Pop()
//	    if err == nil {
//	        backoff.Reset()
//	        handle(n)
//	        continue
//	    }
//	    if mpscq.IsWouldBlock(err) {
//	        backoff.Wait()  // Idle until producers catch up
//	        continue
//	    }
//	    return err  // Unexpected error
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrInFlight indicates a producer's splice is mid-flight: the next
// element is already reachable from the insertion cursor but its link
// store has not landed yet.
//
// Only Poll surfaces ErrInFlight; Pop resolves it internally by
// spinning. It is a transient condition bounded by the racing
// producer's two-step splice — re-poll, optionally with a CPU pause,
// and never treat it as queue failure or emptiness.
//
// This is an alias for [iox.ErrMore] for ecosystem consistency: the
// operation made no progress yet, and more is coming.
var ErrInFlight = iox.ErrMore

// IsWouldBlock reports whether err indicates an empty queue.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsInFlight reports whether err indicates a mid-flight splice.
func IsInFlight(err error) bool {
	return errors.Is(err, ErrInFlight)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrInFlight.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
