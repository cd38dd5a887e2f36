// Package halqueue implements an in-process HAL backed by byte queues
// instead of a physical UART, for unit and integration tests that run
// the bridge and the drive emulator (drivesim) against each other
// without hardware.
package halqueue

import (
	"sync"
	"sync/atomic"
)

// Clock is a free-running millisecond clock shared by both ends of a
// Loopback, advanced explicitly by the test driving the loop (there is
// no wall-clock dependency, so tests are deterministic).
type Clock struct {
	now atomic.Uint32
}

// Now returns the current clock value.
func (c *Clock) Now() uint32 { return c.now.Load() }

// Advance moves the clock forward by ms milliseconds (wrapping).
func (c *Clock) Advance(ms uint32) { c.now.Add(ms) }

// Set pins the clock to an absolute value, for scenarios that need a
// specific timestamp rather than a relative advance.
func (c *Clock) Set(ms uint32) { c.now.Store(ms) }

// Port is one end of a Loopback: a HAL implementation whose UARTWrite
// deposits bytes into the peer's read queue and whose UARTRead drains
// its own.
type Port struct {
	clock    *Clock
	mu       sync.Mutex
	rx       []byte
	peer     *Port
	txEnable bool
	logs     []string
}

// Loopback returns two connected Ports sharing clock: bytes written to
// one are read from the other, modeling a two-party RS-485 bus.
func Loopback(clock *Clock) (a, b *Port) {
	a = &Port{clock: clock}
	b = &Port{clock: clock}
	a.peer, b.peer = b, a
	return a, b
}

func (p *Port) UARTRead(buf []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := copy(buf, p.rx)
	p.rx = p.rx[n:]
	return n
}

func (p *Port) UARTWrite(data []byte) int {
	p.peer.mu.Lock()
	defer p.peer.mu.Unlock()
	p.peer.rx = append(p.peer.rx, data...)
	return len(data)
}

func (p *Port) SetTXEnable(on bool) {
	p.mu.Lock()
	p.txEnable = on
	p.mu.Unlock()
}

// TXEnabled reports the last value passed to SetTXEnable, for tests
// that assert the direction line is sequenced correctly around a TX.
func (p *Port) TXEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.txEnable
}

func (p *Port) NowMs() uint32 { return p.clock.Now() }

// SleepMs is a no-op: tests advance time explicitly via Clock.Advance
// so that scenarios stay deterministic and fast.
func (p *Port) SleepMs(ms uint32) {}

func (p *Port) Log(msg string) {
	p.mu.Lock()
	p.logs = append(p.logs, msg)
	p.mu.Unlock()
}

// Logs returns a copy of the messages passed to Log so far.
func (p *Port) Logs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.logs))
	copy(out, p.logs)
	return out
}
