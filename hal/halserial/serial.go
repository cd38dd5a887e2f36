//go:build linux

// Package halserial implements hal.HAL against real hardware: an
// RS-485 UART opened through github.com/tarm/serial and a
// direction-enable GPIO pin resolved through periph.io. It is meant to
// run on whichever core owns the physical bus; the in-process
// halqueue package stands in for it in tests.
package halserial

import (
	"log"
	"time"

	"github.com/tarm/serial"
	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Baud is the fixed HCP2 line rate.
const Baud = 57600

// Port is a real-hardware hal.HAL: a UART device plus the RS-485
// direction-enable GPIO pin.
type Port struct {
	conn    *serial.Port
	txPin   gpio.PinOut
	started time.Time
	logger  *log.Logger
}

// Open opens dev at the HCP2 baud rate and resolves txPinName (e.g.
// "GPIO17") as the RS-485 driver-enable line through periph.io's pin
// registry, which works across boards without hard-coding a specific
// SoC package.
func Open(dev string, txPinName string) (*Port, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	c := &serial.Config{Name: dev, Baud: Baud, ReadTimeout: time.Millisecond}
	conn, err := serial.OpenPort(c)
	if err != nil {
		return nil, err
	}
	pin := gpioreg.ByName(txPinName)
	if pin == nil {
		conn.Close()
		return nil, errNoSuchPin(txPinName)
	}
	if err := pin.Out(gpio.Low); err != nil {
		conn.Close()
		return nil, err
	}
	return &Port{
		conn:    conn,
		txPin:   pin,
		started: time.Now(),
		logger:  log.Default(),
	}, nil
}

type errNoSuchPin string

func (e errNoSuchPin) Error() string { return "halserial: no such GPIO pin: " + string(e) }

// UARTRead never blocks longer than the port's ReadTimeout, so a read
// with nothing pending returns 0 rather than stalling the
// caller's super-loop.
func (p *Port) UARTRead(buf []byte) int {
	n, err := p.conn.Read(buf)
	if err != nil {
		return 0
	}
	return n
}

func (p *Port) UARTWrite(data []byte) int {
	n, err := p.conn.Write(data)
	if err != nil {
		return 0
	}
	return n
}

func (p *Port) SetTXEnable(on bool) {
	lvl := gpio.Low
	if on {
		lvl = gpio.High
	}
	p.txPin.Out(lvl)
}

func (p *Port) NowMs() uint32 {
	return uint32(time.Since(p.started).Milliseconds())
}

// SleepMs sleeps via unix.Nanosleep rather than time.Sleep: the
// bridge's only intentional stall (draining the RS-485 FIFO before
// releasing the direction line) wants a sub-millisecond-accurate
// wait, not the runtime timer's coarser granularity.
func (p *Port) SleepMs(ms uint32) {
	ts := unix.NsecToTimespec(int64(ms) * int64(time.Millisecond))
	unix.Nanosleep(&ts, nil)
}

func (p *Port) Log(msg string) {
	p.logger.Println(msg)
}

// Close releases the UART.
func (p *Port) Close() error {
	return p.conn.Close()
}
