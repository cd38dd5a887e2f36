// Package hcp2 implements the HCP2 protocol spoken over RS-485 between a
// Hörmann-style garage-drive operator and the bridge firmware: CRC-16
// framing, the two Modbus-RTU function codes the drive uses, and the
// stateful dispatcher that turns received frames into shared-state
// updates and poll responses.
package hcp2

// Unit addresses the bridge answers.
const (
	AddrDrive     = 0x02
	AddrBroadcast = 0x00
)

// Modbus-RTU function codes implemented by HCP2.
const (
	FuncWriteMultiple     = 0x10
	FuncReadWriteMultiple = 0x17
)

// Register group start addresses recognised on the bus.
const (
	RegStatusUpdate = 0x9D31
	RegSyncCounter  = 0x9C41
	RegPoll         = 0x9CB9
)

// Command is a user command relayed HP-core -> LP-core through the
// shared state block.
type Command uint8

const (
	CmdNone Command = iota
	CmdOpen
	CmdClose
	CmdStop
	CmdHalfOpen
	CmdVent
	CmdToggleLight
)

func (c Command) String() string {
	switch c {
	case CmdNone:
		return "none"
	case CmdOpen:
		return "open"
	case CmdClose:
		return "close"
	case CmdStop:
		return "stop"
	case CmdHalfOpen:
		return "half_open"
	case CmdVent:
		return "vent"
	case CmdToggleLight:
		return "toggle_light"
	default:
		return "unknown"
	}
}

// DriveState is the drive-state byte reported by the drive in its
// status updates.
type DriveState uint8

const (
	StateStopped         DriveState = 0x00
	StateOpening         DriveState = 0x01
	StateClosing         DriveState = 0x02
	StateMoveHalf        DriveState = 0x05
	StateMoveVenting     DriveState = 0x09
	StateVentReached     DriveState = 0x0A
	StateOpen            DriveState = 0x20
	StateClosed          DriveState = 0x40
	StateHalfOpenReached DriveState = 0x80
)

// DecodeDriveState maps a raw status byte to a DriveState, defaulting to
// Stopped for anything unrecognised.
func DecodeDriveState(b uint8) DriveState {
	switch DriveState(b) {
	case StateOpening, StateClosing, StateMoveHalf, StateMoveVenting,
		StateVentReached, StateOpen, StateClosed, StateHalfOpenReached:
		return DriveState(b)
	default:
		return StateStopped
	}
}

func (s DriveState) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateClosing:
		return "closing"
	case StateMoveHalf:
		return "move_half"
	case StateMoveVenting:
		return "move_venting"
	case StateVentReached:
		return "vent_reached"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateHalfOpenReached:
		return "half_open_reached"
	default:
		return "stopped"
	}
}

// pressReleaseWindow is the duration a freshly-changed command_request
// is reported in its "pressing" form before the engine switches to the
// "released" form.
const pressReleaseWindow = 500 // ms

// actionTable holds the (pressing, released) register pairs for
// register 2 and register 3 of an action poll response, keyed by
// Command.
type actionPair struct {
	pressR2, pressR3       uint16
	releasedR2, releasedR3 uint16
}

var actionTable = map[Command]actionPair{
	CmdOpen:        {0x0210, 0x0000, 0x0110, 0x0000},
	CmdClose:       {0x0220, 0x0000, 0x0120, 0x0000},
	CmdStop:        {0x0240, 0x0000, 0x0140, 0x0000},
	CmdHalfOpen:    {0x0200, 0x0400, 0x0100, 0x0400},
	CmdVent:        {0x0200, 0x4000, 0x0100, 0x4000},
	CmdToggleLight: {0x0100, 0x0200, 0x0800, 0x0200},
}

// bus-scan identifier triplet returned for a qty=5 poll response.
const (
	identR2 = 0x0430
	identR3 = 0x10FF
	identR4 = 0xA845
)

// IdentTriplet returns the bus-scan identifier registers a qty=5 poll
// response carries, for peers that need to recognise them without
// reaching into engine internals. drivesim's scan does not call it: it
// checks only the response CRC.
func IdentTriplet() (r2, r3, r4 uint16) { return identR2, identR3, identR4 }

// CommandForActionRegisters inverts actionTable: given an (r2, r3)
// register pair observed on the wire, it returns the command that
// pair encodes and whether the pair was in its pressing or released
// form. Used by drivesim, which receives action registers rather than
// producing them.
func CommandForActionRegisters(r2, r3 uint16) (cmd Command, pressing bool, ok bool) {
	for c, pair := range actionTable {
		switch {
		case pair.pressR2 == r2 && pair.pressR3 == r3:
			return c, true, true
		case pair.releasedR2 == r2 && pair.releasedR3 == r3:
			return c, false, true
		}
	}
	return CmdNone, false, false
}
