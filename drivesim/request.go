package drivesim

import "hcp2bridge.dev/hcp2"

// buildWriteRequest encodes a function-0x10 Write Multiple Registers
// request. It is the request-side counterpart to the bridge's
// decode-only frame codec: drivesim plays the drive, which originates
// writes and poll requests rather than responding to them.
func buildWriteRequest(addr byte, start uint16, regs []uint16) []byte {
	buf := make([]byte, 0, 7+len(regs)*2+2)
	buf = append(buf, addr, hcp2.FuncWriteMultiple, byte(start>>8), byte(start))
	buf = append(buf, byte(len(regs)>>8), byte(len(regs)), byte(len(regs)*2))
	for _, r := range regs {
		buf = append(buf, byte(r>>8), byte(r))
	}
	buf = hcp2.AppendCRC(buf, buf)
	return buf
}

// buildReadWriteRequest encodes a function-0x17 Read/Write Multiple
// Registers request: a read leg (readStart, readQty) and a write leg
// (writeStart, writeRegs).
//
// The CRC trailer is appended little-endian, matching the engine's own
// hcp2.CRC16, rather than byte-swapped.
func buildReadWriteRequest(addr byte, readStart uint16, readQty uint16, writeStart uint16, writeRegs []uint16) []byte {
	buf := make([]byte, 0, 11+len(writeRegs)*2+2)
	buf = append(buf, addr, hcp2.FuncReadWriteMultiple)
	buf = append(buf, byte(readStart>>8), byte(readStart), byte(readQty>>8), byte(readQty))
	buf = append(buf, byte(writeStart>>8), byte(writeStart), byte(len(writeRegs)>>8), byte(len(writeRegs)), byte(len(writeRegs)*2))
	for _, r := range writeRegs {
		buf = append(buf, byte(r>>8), byte(r))
	}
	buf = hcp2.AppendCRC(buf, buf)
	return buf
}
