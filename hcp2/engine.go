package hcp2

// Engine is the stateful HCP2 dispatcher. One Engine belongs to one
// bus driver instance; it is never shared across drivers. Zero value
// is ready to use: counter/command code start at zero and no action
// is latched.
type Engine struct {
	counter     uint8
	commandCode uint8
	lastAction  Command
	actionStart uint32
}

// NewEngine returns a ready-to-use Engine.
func NewEngine() *Engine { return &Engine{} }

// Dispatch validates and processes one complete frame, applying any
// write to shared and, for a successful read leg addressed to the
// drive unit, encoding a response into out. It returns the response
// length (0 if the frame produced no response, e.g. a write-only or
// broadcast frame) or a DispatchError identifying the first failing
// check.
//
// out must have spare capacity for the largest possible response (21
// bytes, a qty=8 poll); callers typically pass a fixed buffer sliced to len 0.
func (e *Engine) Dispatch(frame []byte, out []byte, shared *SharedState, nowMs uint32) (int, error) {
	if len(frame) < 4 {
		return 0, dispatchErr(FrameTooShort, "")
	}
	addr := frame[0]
	if addr != AddrDrive && addr != AddrBroadcast {
		return 0, dispatchErr(InvalidAddress, "")
	}
	fn := frame[1]
	if fn != FuncWriteMultiple && fn != FuncReadWriteMultiple {
		return 0, dispatchErr(InvalidFunction, "")
	}
	if !ValidCRC(frame) {
		return 0, dispatchErr(CrcMismatch, "")
	}

	shared.SetLastUpdateTs(nowMs)

	body := frame[2 : len(frame)-2]

	switch fn {
	case FuncWriteMultiple:
		wr, err := decodeWriteMultiple(body)
		if err != nil {
			return 0, err
		}
		e.applyWrite(wr, shared)
		return 0, nil

	case FuncReadWriteMultiple:
		rw, err := decodeReadWriteMultiple(body)
		if err != nil {
			return 0, err
		}
		e.applyWrite(rw.write, shared)

		if addr == AddrBroadcast {
			return 0, nil
		}
		if rw.readStart != RegPoll {
			return 0, nil
		}
		return e.encodePollResponse(out, rw.readQty, shared, nowMs)
	}

	return 0, dispatchErr(InvalidFunction, "")
}

// applyWrite routes a decoded write request (from either Fn 0x10 or the
// write leg of Fn 0x17) by its register group start address. An
// unrecognised start address is not an error: the write is ignored.
func (e *Engine) applyWrite(wr writeRequest, shared *SharedState) {
	switch wr.start {
	case RegStatusUpdate:
		if len(wr.regs) < 9 {
			return
		}
		shared.SetTargetPosition(uint8(wr.regs[1] >> 8))
		shared.SetCurrentPosition(uint8(wr.regs[1] & 0xFF))
		shared.SetCurrentState(DecodeDriveState(uint8(wr.regs[2] >> 8)))
		shared.SetLightOn(wr.regs[6]&0x10 != 0)
	case RegSyncCounter:
		if len(wr.regs) < 1 {
			return
		}
		e.counter = uint8(wr.regs[0] >> 8)
		e.commandCode = uint8(wr.regs[0] & 0xFF)
	default:
		// Unknown address: not an error, simply ignored.
	}
}

// encodePollResponse builds the read-leg response for a poll request
// (read leg start address already verified as RegPoll by the caller).
// qty outside {2,5,8} yields no response.
func (e *Engine) encodePollResponse(out []byte, qty uint16, shared *SharedState, nowMs uint32) (int, error) {
	var regs []uint16
	switch qty {
	case 2:
		regs = []uint16{
			uint16(e.counter)<<8 | 0x04,
			uint16(e.commandCode)<<8 | 0x00,
		}
	case 5:
		regs = []uint16{
			uint16(e.counter) << 8,
			uint16(e.commandCode)<<8 | 0x05,
			identR2, identR3, identR4,
		}
	case 8:
		r2, r3 := e.actionRegisters(shared, nowMs)
		regs = []uint16{
			uint16(e.counter) << 8,
			uint16(e.commandCode)<<8 | 0x01,
			r2, r3,
			0, 0, 0, 0,
		}
	default:
		return 0, nil
	}
	n, err := encodeReadWriteResponse(out, AddrDrive, regs)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// actionRegisters implements the press/release envelope. It reads
// command_request from shared, latches the transition time
// when the request changes, and returns the register pair for the
// command's current phase.
func (e *Engine) actionRegisters(shared *SharedState, nowMs uint32) (r2, r3 uint16) {
	req := shared.CommandRequest()
	if req == CmdNone {
		e.lastAction = CmdNone
		return 0, 0
	}
	if req != e.lastAction {
		e.actionStart = nowMs
		e.lastAction = req
	}
	pair, ok := actionTable[req]
	if !ok {
		return 0, 0
	}
	elapsed := nowMs - e.actionStart // wrapping 32-bit subtraction
	if elapsed < pressReleaseWindow {
		return pair.pressR2, pair.pressR3
	}
	return pair.releasedR2, pair.releasedR3
}
