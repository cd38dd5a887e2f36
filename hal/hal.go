// Package hal defines the polymorphic capability set the bus driver
// and the drive emulator are built against: non-blocking UART byte
// I/O, RS-485 direction control, a free-running millisecond clock, a
// blocking sleep, and a log sink. Concrete implementations are
// supplied by the host, resolved per target at build time; this
// package only fixes the contract.
package hal

// HAL is the capability set consumed by busdriver.Driver and
// drivesim.Emulator. Implementations live in halserial (real UART +
// GPIO) and halqueue (in-process, for tests).
type HAL interface {
	// UARTRead copies any bytes already received into buf and returns
	// how many; it never blocks, returning 0 when idle.
	UARTRead(buf []byte) int
	// UARTWrite enqueues data for transmission and returns once the
	// bytes are accepted by the UART (it may return before the wire
	// has drained).
	UARTWrite(data []byte) int
	// SetTXEnable asserts or deasserts the RS-485 driver-enable line.
	SetTXEnable(on bool)
	// NowMs returns a free-running, wraparound-at-2^32 millisecond
	// clock. All arithmetic on its result uses wrapping semantics.
	NowMs() uint32
	// SleepMs blocks the caller for at least ms milliseconds.
	SleepMs(ms uint32)
	// Log emits a single free-form diagnostic line.
	Log(msg string)
}
