// Package busdriver implements the bus driver / framer: a byte
// accumulator that closes a frame on inter-character silence, hands
// it to the HCP2 protocol engine, and sequences the RS-485
// direction-enable line around any response. It is the LP-core half
// of the bridge.
package busdriver

import (
	"fmt"

	"hcp2bridge.dev/hal"
	"hcp2bridge.dev/hcp2"
)

// silenceTimeoutMs is the inter-character gap (a safe overshoot of
// Modbus-RTU T3.5 at 57600 baud) that closes a frame.
const silenceTimeoutMs = 10

// txDrainMs is slept after a TX write so the UART FIFO drains before
// the RS-485 direction line is released.
const txDrainMs = 2

// rxBufSize comfortably exceeds the largest legal frame (45 bytes, a
// 16-register write via Fn 0x17).
const rxBufSize = 128

// Driver is the LP-side bus driver. One Driver owns one HAL, one
// hcp2.Engine and the hcp2.SharedState block it mutates; it is
// constructed once at boot and polled forever.
type Driver struct {
	hal    hal.HAL
	engine *hcp2.Engine
	shared *hcp2.SharedState

	rxBuf    [rxBufSize]byte
	rxIdx    int
	lastRxMs uint32
	txBuf    [rxBufSize]byte
}

// NewDriver constructs a Driver over h, dispatching through engine into
// shared.
func NewDriver(h hal.HAL, engine *hcp2.Engine, shared *hcp2.SharedState) *Driver {
	return &Driver{hal: h, engine: engine, shared: shared}
}

// Poll performs one iteration of the framer state machine. It is
// meant to be called roughly every millisecond from a super-loop; see
// cmd/lpcore.
func (d *Driver) Poll() {
	if n := d.hal.UARTRead(d.rxBuf[d.rxIdx:]); n > 0 {
		d.rxIdx += n
		d.lastRxMs = d.hal.NowMs()
	}

	if d.rxIdx == 0 {
		return
	}
	if d.hal.NowMs()-d.lastRxMs <= silenceTimeoutMs {
		return
	}

	if !d.shared.CompareAndSwapOwner(hcp2.OwnerFree, hcp2.OwnerLP) {
		// HP core is actively writing HP->LP fields; wait for next tick.
		d.rxIdx = 0
		return
	}
	defer func() {
		d.shared.SetOwner(hcp2.OwnerFree)
		d.rxIdx = 0
	}()

	frame := d.rxBuf[:d.rxIdx]
	txLen, err := d.engine.Dispatch(frame, d.txBuf[:0], d.shared, d.hal.NowMs())
	if err != nil {
		d.logDispatchError(err)
		return
	}
	if txLen == 0 {
		return
	}

	d.hal.SetTXEnable(true)
	d.hal.UARTWrite(d.txBuf[:txLen])
	d.hal.SleepMs(txDrainMs)
	d.hal.SetTXEnable(false)
}

// logDispatchError reports a dispatch failure at a severity chosen by
// its kind. Nothing is retried by the bridge: the remote peer retries
// on the Modbus layer.
func (d *Driver) logDispatchError(err error) {
	de, ok := err.(*hcp2.DispatchError)
	if !ok {
		d.hal.Log(fmt.Sprintf("busdriver: %v", err))
		return
	}
	severity := "ERROR"
	switch de.Kind {
	case hcp2.InvalidAddress, hcp2.InvalidFunction:
		severity = "DEBUG"
	}
	d.hal.Log(fmt.Sprintf("busdriver: [%s] %v", severity, de))
}
