// Package drivesim implements the "tester": a software stand-in for
// the drive's own HCP2 endpoint, used to close the protocol loop in
// integration tests and for hardware-in-the-loop rehearsal. It is not
// shipped in the bridge firmware.
//
// Its three-state Scan/Broadcast/Poll request loop and its
// channel-free, tick-driven shape play the same "other end of the
// wire" role a software peer plays for any single-master serial bus.
package drivesim

import (
	"encoding/binary"

	"hcp2bridge.dev/hal"
	"hcp2bridge.dev/hcp2"
)

// State is the emulator's request-cycle state.
type State int

const (
	StateScan State = iota
	StateBroadcast
	StatePoll
)

func (s State) String() string {
	switch s {
	case StateScan:
		return "scan"
	case StateBroadcast:
		return "broadcast"
	case StatePoll:
		return "poll"
	default:
		return "unknown"
	}
}

const (
	scanIntervalMs = 1000
	pollIntervalMs = 100
	silenceMs      = 10
	rxBufSize      = 128
)

// Emulator is the drive-side HCP2 endpoint.
type Emulator struct {
	hal hal.HAL

	// ScanAddress is the unit address probed while scanning; tests pin
	// it to hcp2.AddrDrive, production default-iterates (left to the
	// caller to drive via repeated NewEmulator/ScanAddress changes,
	// since HCP2 only ever targets one real drive per bus).
	ScanAddress byte

	Physics *Physics

	state         State
	lastRequestMs uint32
	haveRequested bool

	syncCounter uint8
	commandCode uint8
	lastCmd     hcp2.Command

	rxBuf    [rxBufSize]byte
	rxIdx    int
	lastRxMs uint32
}

// NewEmulator returns an Emulator in the Scan state, addressing
// hcp2.AddrDrive by default.
func NewEmulator(h hal.HAL) *Emulator {
	return &Emulator{
		hal:         h,
		ScanAddress: hcp2.AddrDrive,
		Physics:     NewPhysics(),
	}
}

// State returns the emulator's current request-cycle state.
func (e *Emulator) State() State { return e.state }

// Tick drains any pending response bytes and, depending on State(),
// either processes a completed response or issues the next request.
// It is meant to be called roughly every millisecond, mirroring
// busdriver.Driver.Poll.
func (e *Emulator) Tick(nowMs uint32) {
	e.Physics.Tick()

	if n := e.hal.UARTRead(e.rxBuf[e.rxIdx:]); n > 0 {
		e.rxIdx += n
		e.lastRxMs = nowMs
	}

	switch e.state {
	case StateScan:
		e.tickScan(nowMs)
	case StateBroadcast:
		e.sendBroadcast(nowMs)
		e.state = StatePoll
		// Count the broadcast as a request so the next poll waits out the
		// poll interval; sent on the very next tick, the bridge would
		// read both requests as one frame.
		e.lastRequestMs = nowMs
		e.haveRequested = true
	case StatePoll:
		e.tickPoll(nowMs)
	}
}

func (e *Emulator) frameReady(nowMs uint32) ([]byte, bool) {
	if e.rxIdx == 0 || nowMs-e.lastRxMs <= silenceMs {
		return nil, false
	}
	frame := append([]byte(nil), e.rxBuf[:e.rxIdx]...)
	e.rxIdx = 0
	return frame, true
}

func (e *Emulator) tickScan(nowMs uint32) {
	if frame, ok := e.frameReady(nowMs); ok {
		// A length check alone isn't enough to call a device present;
		// validate CRC first.
		if hcp2.ValidCRC(frame) {
			e.state = StateBroadcast
			e.haveRequested = false
			return
		}
		// Malformed: stay in Scan and retry after the interval.
	}
	if e.haveRequested && nowMs-e.lastRequestMs < scanIntervalMs {
		return
	}
	req := buildReadWriteRequest(e.ScanAddress, hcp2.RegPoll, 5, hcp2.RegSyncCounter, []uint16{0, 0, 0})
	e.hal.SetTXEnable(true)
	e.hal.UARTWrite(req)
	e.hal.SetTXEnable(false)
	e.lastRequestMs = nowMs
	e.haveRequested = true
}

func (e *Emulator) sendBroadcast(nowMs uint32) {
	regs := make([]uint16, 9)
	target := uint16(clampPosition(e.Physics.Target))
	current := uint16(clampPosition(e.Physics.Position))
	regs[1] = target<<8 | current
	regs[2] = uint16(e.Physics.State()) << 8
	if e.Physics.Light {
		regs[6] = 0x10
	}
	req := buildWriteRequest(hcp2.AddrBroadcast, hcp2.RegStatusUpdate, regs)
	e.hal.SetTXEnable(true)
	e.hal.UARTWrite(req)
	e.hal.SetTXEnable(false)
}

func (e *Emulator) tickPoll(nowMs uint32) {
	if frame, ok := e.frameReady(nowMs); ok {
		e.applyPollResponse(frame)
		e.state = StateBroadcast
		e.haveRequested = false
		return
	}
	if e.haveRequested && nowMs-e.lastRequestMs < pollIntervalMs {
		return
	}
	e.syncCounter++
	syncReg := uint16(e.syncCounter)<<8 | uint16(e.commandCode)
	req := buildReadWriteRequest(hcp2.AddrDrive, hcp2.RegPoll, 8, hcp2.RegSyncCounter, []uint16{syncReg})
	e.hal.SetTXEnable(true)
	e.hal.UARTWrite(req)
	e.hal.SetTXEnable(false)
	e.lastRequestMs = nowMs
	e.haveRequested = true
}

// applyPollResponse decodes an action-poll response and applies the
// command edge it carries to the physics model. A malformed response
// is silently dropped, never applied. The command is only applied on
// the transition into its pressing form — the response
// repeats the same pressing or released row for as long as the HP core
// holds command_request, and re-applying every 100 ms poll would, for
// TOGGLE_LIGHT, flip the light on every cycle instead of once per
// press.
func (e *Emulator) applyPollResponse(frame []byte) {
	if !hcp2.ValidCRC(frame) {
		return
	}
	if len(frame) < 5 {
		return
	}
	byteCount := int(frame[2])
	data := frame[3 : len(frame)-2]
	if len(data) < byteCount || byteCount < 8 {
		return
	}
	r2 := binary.BigEndian.Uint16(data[4:6])
	r3 := binary.BigEndian.Uint16(data[6:8])
	cmd, pressing, ok := hcp2.CommandForActionRegisters(r2, r3)
	if !ok {
		e.lastCmd = hcp2.CmdNone
		return
	}
	if pressing && cmd != e.lastCmd {
		e.Physics.Apply(cmd)
	}
	e.lastCmd = cmd
}

func clampPosition(pos float32) uint8 {
	if pos < 0 {
		return 0
	}
	if pos > 200 {
		return 200
	}
	return uint8(pos)
}
