// Package bustrace records and replays a captured HCP2 bus session: an
// ordered list of frame bytes with arrival timestamps, one entry per
// UART transfer. It exists for integration-test goldens and field
// diagnostics that a single free-form log line can't reproduce. CBOR,
// rather than the fixed-layout binary the wire protocol itself uses,
// is the right encoding here: a trace is a variable-length sequence of
// variable-length frames, the shape CBOR is for.
package bustrace

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"hcp2bridge.dev/hal"
)

// Direction distinguishes a captured frame's origin.
type Direction uint8

const (
	RX Direction = iota
	TX
)

func (d Direction) String() string {
	if d == TX {
		return "tx"
	}
	return "rx"
}

// Entry is one captured transfer.
type Entry struct {
	TimestampMs uint32    `cbor:"ts"`
	Direction   Direction `cbor:"dir"`
	Data        []byte    `cbor:"data"`
}

// Recorder appends Entry values to an underlying writer as a stream of
// CBOR-encoded records.
type Recorder struct {
	enc *cbor.Encoder
}

// NewRecorder returns a Recorder writing to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{enc: cbor.NewEncoder(w)}
}

// Record appends one entry.
func (r *Recorder) Record(e Entry) error {
	if err := r.enc.Encode(e); err != nil {
		return fmt.Errorf("bustrace: record: %w", err)
	}
	return nil
}

// Player reads back a stream written by a Recorder.
type Player struct {
	dec *cbor.Decoder
}

// NewPlayer returns a Player reading from r.
func NewPlayer(r io.Reader) *Player {
	return &Player{dec: cbor.NewDecoder(r)}
}

// Next returns the next recorded entry, or io.EOF when the stream is
// exhausted.
func (p *Player) Next() (Entry, error) {
	var e Entry
	if err := p.dec.Decode(&e); err != nil {
		if err == io.EOF {
			return Entry{}, io.EOF
		}
		return Entry{}, fmt.Errorf("bustrace: next: %w", err)
	}
	return e, nil
}

// TracingHAL wraps a hal.HAL, recording every UART transfer it
// observes through Recorder before passing it through unmodified. It
// is a drop-in hal.HAL, so cmd/hilsim can capture a session just by
// substituting it for the underlying backend.
type TracingHAL struct {
	hal.HAL
	rec *Recorder
}

// NewTracingHAL wraps h, recording transfers to rec.
func NewTracingHAL(h hal.HAL, rec *Recorder) *TracingHAL {
	return &TracingHAL{HAL: h, rec: rec}
}

func (t *TracingHAL) UARTRead(buf []byte) int {
	n := t.HAL.UARTRead(buf)
	if n > 0 {
		t.rec.Record(Entry{TimestampMs: t.HAL.NowMs(), Direction: RX, Data: append([]byte(nil), buf[:n]...)})
	}
	return n
}

func (t *TracingHAL) UARTWrite(data []byte) int {
	n := t.HAL.UARTWrite(data)
	if n > 0 {
		t.rec.Record(Entry{TimestampMs: t.HAL.NowMs(), Direction: TX, Data: append([]byte(nil), data[:n]...)})
	}
	return n
}
