// Package clock provides the 32-bit millisecond timestamps used on the wire.
//
// Timestamps are an integer number of milliseconds relative to an unspecified
// epoch; typically each peer counts from its own start time. Because they are
// 32 bits long they roll over every ~49.7 days, so long-running streams must
// compare timestamps with serial number arithmetic (RFC 1982) rather than
// plain ordering.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock yields the current wire timestamp.
type Clock interface {
	Now() uint32
}

// SystemClock counts milliseconds since its construction, modulo 2^32.
type SystemClock struct {
	start time.Time
}

func NewSystem() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

// Fixed always yields the same timestamp. Useful for tests.
type Fixed uint32

func (f Fixed) Now() uint32 { return uint32(f) }

// Manual is a hand-advanced clock for tests.
type Manual struct {
	v atomic.Uint32
}

func (m *Manual) Now() uint32 { return m.v.Load() }

func (m *Manual) Set(v uint32) { m.v.Store(v) }

func (m *Manual) Advance(d uint32) { m.v.Add(d) }

// Less reports whether a precedes b in serial number arithmetic: adjacent
// timestamps are assumed within 2^31-1 ms of each other, so 10000 comes
// after 4000000000 across a rollover.
func Less(a, b uint32) bool {
	return a != b && b-a < 1<<31
}
