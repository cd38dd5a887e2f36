package hcp2

import "encoding/binary"

// maxWriteRegs bounds how many write registers are materialized from a
// single frame; HCP2 never legitimately writes more, so additional
// registers are silently truncated.
const maxWriteRegs = 16

// writeRequest is the decoded payload of a function-0x10 frame, or the
// write leg of a function-0x17 frame.
type writeRequest struct {
	start uint16
	regs  []uint16
}

// decodeWriteMultiple parses a function-0x10 Write Multiple Registers
// request body (the frame without address/function byte and without
// the CRC trailer: start_hi, start_lo, qty_hi, qty_lo, byte_count, data...).
func decodeWriteMultiple(body []byte) (writeRequest, *DispatchError) {
	if len(body) < 5 {
		return writeRequest{}, dispatchErr(ParsingError, "write header truncated")
	}
	start := binary.BigEndian.Uint16(body[0:2])
	qty := binary.BigEndian.Uint16(body[2:4])
	byteCount := int(body[4])
	if byteCount != int(qty)*2 {
		return writeRequest{}, dispatchErr(ParsingError, "byte count does not match register quantity")
	}
	if len(body)-5 < byteCount {
		return writeRequest{}, dispatchErr(ParsingError, "declared payload exceeds frame")
	}
	return writeRequest{start: start, regs: decodeRegs(body[5 : 5+byteCount])}, nil
}

// readWriteRequest is the decoded payload of a function-0x17 frame.
type readWriteRequest struct {
	readStart uint16
	readQty   uint16
	write     writeRequest
}

// decodeReadWriteMultiple parses a function-0x17 Read/Write Multiple
// Registers request body (rd_start_hi..rd_qty_lo, wr_start_hi..wr_qty_lo,
// wr_byte_count, wr_data...).
func decodeReadWriteMultiple(body []byte) (readWriteRequest, *DispatchError) {
	if len(body) < 9 {
		return readWriteRequest{}, dispatchErr(ParsingError, "read/write header truncated")
	}
	readStart := binary.BigEndian.Uint16(body[0:2])
	readQty := binary.BigEndian.Uint16(body[2:4])
	wr, err := decodeWriteMultiple(body[4:])
	if err != nil {
		return readWriteRequest{}, err
	}
	return readWriteRequest{readStart: readStart, readQty: readQty, write: wr}, nil
}

// decodeRegs decodes a run of big-endian 16-bit registers, truncating
// to maxWriteRegs.
func decodeRegs(data []byte) []uint16 {
	n := len(data) / 2
	if n > maxWriteRegs {
		n = maxWriteRegs
	}
	regs := make([]uint16, n)
	for i := range regs {
		regs[i] = binary.BigEndian.Uint16(data[i*2:])
	}
	return regs
}

// encodeReadWriteResponse encodes a function-0x17 response
// (addr, 0x17, byte_count, data..., crc_lo, crc_hi) into out[:0],
// returning the total frame length. It fails if out cannot hold
// 5 + len(regs)*2 bytes.
func encodeReadWriteResponse(out []byte, addr byte, regs []uint16) (int, *DispatchError) {
	need := 5 + len(regs)*2
	if cap(out) < need {
		return 0, dispatchErr(ParsingError, "output buffer too small for response")
	}
	buf := out[:0]
	buf = append(buf, addr, FuncReadWriteMultiple, byte(len(regs)*2))
	for _, r := range regs {
		buf = append(buf, byte(r>>8), byte(r))
	}
	buf = AppendCRC(buf, buf)
	return len(buf), nil
}
