package drivesim

import "hcp2bridge.dev/hcp2"

// Physics is the simple door-travel model the drive emulator uses to
// turn applied commands into a position and a reported drive state.
// It is floating-point on purpose — only the test peer needs it, not
// the bridge firmware itself.
type Physics struct {
	// Position is the current position, 0 (closed) to 200 (open).
	Position float32
	// Target is the position the door is slewing towards.
	Target float32
	// Speed is how far Position moves per Tick, in position units.
	Speed float32
	// Light mirrors the drive's light relay.
	Light bool
	// venting records whether the vent position is engaged: each VENT
	// flips it, OPEN/CLOSE/HALF_OPEN clear it, so a second VENT toggles
	// back to closed rather than re-opening to the vent crack. See
	// DESIGN.md for this choice.
	venting bool
}

// NewPhysics returns a Physics model at rest, closed — the state a
// garage door is in when the emulator boots.
func NewPhysics() *Physics {
	return &Physics{Speed: 4}
}

// Tick advances Position towards Target by up to Speed units, snapping
// when within Speed of the target so the model settles exactly rather
// than oscillating around it.
func (p *Physics) Tick() {
	delta := p.Target - p.Position
	if delta == 0 {
		return
	}
	if delta > 0 {
		if delta <= p.Speed {
			p.Position = p.Target
		} else {
			p.Position += p.Speed
		}
	} else {
		if -delta <= p.Speed {
			p.Position = p.Target
		} else {
			p.Position -= p.Speed
		}
	}
	if p.Position < 0 {
		p.Position = 0
	}
	if p.Position > 200 {
		p.Position = 200
	}
}

// Apply applies a decoded command edge to the model.
func (p *Physics) Apply(cmd hcp2.Command) {
	switch cmd {
	case hcp2.CmdOpen:
		p.venting = false
		p.Target = 200
	case hcp2.CmdClose:
		p.venting = false
		p.Target = 0
	case hcp2.CmdStop:
		p.Target = p.Position
	case hcp2.CmdHalfOpen:
		p.venting = false
		p.Target = 100
	case hcp2.CmdVent:
		p.venting = !p.venting
		if p.venting {
			p.Target = 20
		} else {
			p.Target = 0
		}
	case hcp2.CmdToggleLight:
		p.Light = !p.Light
	}
}

// State derives the reported drive-state byte from the current
// position: moving while more than 0.1 units from target, otherwise
// Open/Closed/HalfOpenReached by threshold, else Stopped.
func (p *Physics) State() hcp2.DriveState {
	delta := p.Target - p.Position
	if delta > 0.1 {
		return hcp2.StateOpening
	}
	if delta < -0.1 {
		return hcp2.StateClosing
	}
	switch {
	case p.Position >= 199:
		return hcp2.StateOpen
	case p.Position <= 1:
		return hcp2.StateClosed
	case p.Position >= 90 && p.Position <= 110:
		return hcp2.StateHalfOpenReached
	default:
		return hcp2.StateStopped
	}
}
