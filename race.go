// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package mpscq

// RaceEnabled is true when the race detector is active.
// The queue itself uses sync/atomic operations the detector understands,
// but stress tests instrumented with atomix counters use explicit memory
// orderings the detector cannot track and are skipped under race builds.
const RaceEnabled = true
