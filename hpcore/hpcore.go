// Package hpcore implements the thin HP-core side of the IPC contract:
// issuing a user command into the shared state block and reading back
// drive status. The HP core's actual upstream connectivity
// (MQTT/HTTP/Matter/...) is not implemented here; this package is the
// seam a real upstream integration would sit behind.
package hpcore

import "hcp2bridge.dev/hcp2"

// Status is a snapshot of the LP->HP fields of the shared state block.
type Status struct {
	State        hcp2.DriveState
	Position     uint8
	Light        bool
	LastUpdateTs uint32
	ErrorCode    uint8
}

// Commander is the HP-core side of one bridge's shared state block.
type Commander struct {
	shared *hcp2.SharedState
}

// NewCommander wraps shared for HP-side access.
func NewCommander(shared *hcp2.SharedState) *Commander {
	return &Commander{shared: shared}
}

// Issue requests a user command and a target position, acquiring the
// owner flag for the duration of the write and releasing it
// afterwards. If the LP driver is currently mid-dispatch (owner_flag
// == 2), Issue does not spin waiting for it; it returns false
// immediately so the caller can retry on its own next tick.
func (c *Commander) Issue(cmd hcp2.Command, targetPosition uint8) bool {
	if !c.shared.CompareAndSwapOwner(hcp2.OwnerFree, hcp2.OwnerHP) {
		return false
	}
	c.shared.SetCommandRequest(cmd)
	c.shared.SetTargetPosition(targetPosition)
	c.shared.SetOwner(hcp2.OwnerFree)
	return true
}

// Status reads back the current LP->HP fields. Unlike Issue, a read
// does not need the owner flag: the fields are single-writer (the
// LP-side engine) and volatile, so a torn read is never a torn field,
// only a possibly-stale one; a missed update window is benign, since
// the next poll cycle picks it up.
func (c *Commander) Status() Status {
	return Status{
		State:        c.shared.CurrentState(),
		Position:     c.shared.CurrentPosition(),
		Light:        c.shared.LightOn(),
		LastUpdateTs: c.shared.LastUpdateTs(),
		ErrorCode:    c.shared.ErrorCode(),
	}
}
