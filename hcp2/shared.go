package hcp2

import (
	"encoding/binary"
	"sync/atomic"
)

// Owner identifies which side of the bridge currently holds the shared
// state block for mutation.
type Owner uint8

const (
	OwnerFree Owner = iota
	OwnerHP
	OwnerLP
)

// SharedState is the fixed-layout, byte-stable block of memory shared
// between the HP and LP cores. Every field here corresponds to one
// offset in the 16-byte layout; Bytes/LoadBytes marshal it to that
// exact layout for diagnostics and for tests that assert byte-for-byte
// stability.
//
// All accesses go through the typed load/store methods below, backed
// by sync/atomic, so that neither core's compiler reorders or elides
// them — the Go equivalent of a volatile discipline. The LP-side
// engine writes the LP->HP fields and the HP side writes
// command_request. target_position is written by the HP side when it
// issues a command and by the engine when a status update reports the
// drive's target; owner_flag is the coordination cell both sides write.
type SharedState struct {
	ownerFlag       atomic.Uint32 // Owner, stored widened; offset 0
	commandRequest  atomic.Uint32 // Command, stored widened; offset 1
	targetPosition  atomic.Uint32 // 0-200; offset 2
	currentState    atomic.Uint32 // DriveState; offset 3
	currentPosition atomic.Uint32 // 0-200; offset 4
	lightOn         atomic.Bool   // offset 5
	lastUpdateTs    atomic.Uint32 // ms clock; offset 8-11
	errorCode       atomic.Uint32 // offset 12
}

// NewSharedState returns a zeroed shared block: owner free, no
// command, no error.
func NewSharedState() *SharedState {
	return &SharedState{}
}

// Owner returns the current owner flag.
func (s *SharedState) Owner() Owner { return Owner(s.ownerFlag.Load()) }

// SetOwner stores the owner flag. Callers must restore OwnerFree
// before returning from the section that acquired it.
func (s *SharedState) SetOwner(o Owner) { s.ownerFlag.Store(uint32(o)) }

// CompareAndSwapOwner atomically transitions the owner flag from want
// to set, returning false (no transition) if the current owner was not
// want. Used by the LP-side driver's acquire/release handshake.
func (s *SharedState) CompareAndSwapOwner(want, set Owner) bool {
	return s.ownerFlag.CompareAndSwap(uint32(want), uint32(set))
}

// CommandRequest returns the HP->LP command request field.
func (s *SharedState) CommandRequest() Command {
	return Command(s.commandRequest.Load())
}

// SetCommandRequest is called only by the HP side.
func (s *SharedState) SetCommandRequest(c Command) {
	s.commandRequest.Store(uint32(c))
}

// TargetPosition returns the HP->LP target position (0-200).
func (s *SharedState) TargetPosition() uint8 {
	return uint8(s.targetPosition.Load())
}

// SetTargetPosition is called by the HP side when issuing a command and
// by the protocol engine when applying a status update.
func (s *SharedState) SetTargetPosition(p uint8) {
	s.targetPosition.Store(uint32(p))
}

// CurrentState returns the LP->HP drive state.
func (s *SharedState) CurrentState() DriveState {
	return DriveState(s.currentState.Load())
}

// SetCurrentState is written only by the protocol engine.
func (s *SharedState) SetCurrentState(st DriveState) {
	s.currentState.Store(uint32(st))
}

// CurrentPosition returns the LP->HP current position (0-200).
func (s *SharedState) CurrentPosition() uint8 {
	return uint8(s.currentPosition.Load())
}

// SetCurrentPosition is written only by the protocol engine.
func (s *SharedState) SetCurrentPosition(p uint8) {
	s.currentPosition.Store(uint32(p))
}

// LightOn returns the LP->HP light state.
func (s *SharedState) LightOn() bool { return s.lightOn.Load() }

// SetLightOn is written only by the protocol engine.
func (s *SharedState) SetLightOn(on bool) { s.lightOn.Store(on) }

// LastUpdateTs returns the ms clock value at the last valid RX.
func (s *SharedState) LastUpdateTs() uint32 { return s.lastUpdateTs.Load() }

// SetLastUpdateTs is written only by the protocol engine.
func (s *SharedState) SetLastUpdateTs(ts uint32) { s.lastUpdateTs.Store(ts) }

// ErrorCode returns the LP->HP error code (0 = none).
func (s *SharedState) ErrorCode() uint8 { return uint8(s.errorCode.Load()) }

// SetErrorCode is written only by the protocol engine.
func (s *SharedState) SetErrorCode(code uint8) { s.errorCode.Store(uint32(code)) }

// Bytes marshals the block to its exact 16-byte on-wire layout,
// native-endian, padding bytes zeroed. It is not used on the hot path
// (field access goes through the atomic accessors above); it exists for
// diagnostics and for tests that check layout stability.
func (s *SharedState) Bytes() [16]byte {
	var b [16]byte
	b[0] = byte(s.Owner())
	b[1] = byte(s.CommandRequest())
	b[2] = s.TargetPosition()
	b[3] = byte(s.CurrentState())
	b[4] = s.CurrentPosition()
	if s.LightOn() {
		b[5] = 1
	}
	binary.LittleEndian.PutUint32(b[8:12], s.LastUpdateTs())
	b[12] = s.ErrorCode()
	return b
}

// LoadBytes overwrites the block from a 16-byte layout produced by
// Bytes.
func (s *SharedState) LoadBytes(b [16]byte) {
	s.SetOwner(Owner(b[0]))
	s.SetCommandRequest(Command(b[1]))
	s.SetTargetPosition(b[2])
	s.SetCurrentState(DriveState(b[3]))
	s.SetCurrentPosition(b[4])
	s.SetLightOn(b[5] != 0)
	s.SetLastUpdateTs(binary.LittleEndian.Uint32(b[8:12]))
	s.SetErrorCode(b[12])
}
