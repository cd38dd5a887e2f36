package hcp2

import "fmt"

// ErrorKind classifies a dispatch failure. The framer (busdriver
// package) picks a log severity from the kind; see
// busdriver's logDispatchError.
type ErrorKind int

const (
	// FrameTooShort means the frame was below the minimum 4 bytes
	// needed to read an address, function code and CRC trailer.
	FrameTooShort ErrorKind = iota
	// InvalidAddress means the frame's unit address was neither 0x02
	// nor the broadcast address 0x00.
	InvalidAddress
	// InvalidFunction means the function code is not one HCP2
	// implements.
	InvalidFunction
	// CrcMismatch means the trailing CRC did not match the frame body.
	CrcMismatch
	// ParsingError means a declared payload length exceeded the frame,
	// or the caller's output buffer was too small for a response.
	ParsingError
)

func (k ErrorKind) String() string {
	switch k {
	case FrameTooShort:
		return "frame too short"
	case InvalidAddress:
		return "invalid address"
	case InvalidFunction:
		return "invalid function"
	case CrcMismatch:
		return "crc mismatch"
	case ParsingError:
		return "parsing error"
	default:
		return "unknown error"
	}
}

// DispatchError is returned by (*Engine).Dispatch.
type DispatchError struct {
	Kind ErrorKind
	msg  string
}

func (e *DispatchError) Error() string {
	if e.msg == "" {
		return "hcp2: " + e.Kind.String()
	}
	return fmt.Sprintf("hcp2: %s: %s", e.Kind, e.msg)
}

func dispatchErr(kind ErrorKind, msg string) *DispatchError {
	return &DispatchError{Kind: kind, msg: msg}
}
