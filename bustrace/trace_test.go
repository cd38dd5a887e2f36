package bustrace

import (
	"bytes"
	"io"
	"testing"

	"hcp2bridge.dev/hal/halqueue"
)

func TestRecordPlayRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	want := []Entry{
		{TimestampMs: 10, Direction: RX, Data: []byte{0x02, 0x10}},
		{TimestampMs: 15, Direction: TX, Data: []byte{0x02, 0x17, 0x00}},
	}
	for _, e := range want {
		if err := rec.Record(e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	p := NewPlayer(&buf)
	for i, w := range want {
		got, err := p.Next()
		if err != nil {
			t.Fatalf("Next(%d): %v", i, err)
		}
		if got.TimestampMs != w.TimestampMs || got.Direction != w.Direction || !bytes.Equal(got.Data, w.Data) {
			t.Errorf("entry %d = %+v, want %+v", i, got, w)
		}
	}
	if _, err := p.Next(); err != io.EOF {
		t.Errorf("Next() after exhaustion = %v, want io.EOF", err)
	}
}

func TestDirectionString(t *testing.T) {
	if RX.String() != "rx" {
		t.Errorf("RX.String() = %q, want rx", RX.String())
	}
	if TX.String() != "tx" {
		t.Errorf("TX.String() = %q, want tx", TX.String())
	}
}

func TestTracingHALRecordsTransfers(t *testing.T) {
	clock := &halqueue.Clock{}
	a, b := halqueue.Loopback(clock)

	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	traced := NewTracingHAL(a, rec)

	b.UARTWrite([]byte{0xAA, 0xBB})
	clock.Advance(5)
	n := traced.UARTRead(make([]byte, 16))
	if n != 2 {
		t.Fatalf("UARTRead through TracingHAL = %d, want 2", n)
	}

	clock.Advance(3)
	traced.UARTWrite([]byte{0xCC})

	p := NewPlayer(&buf)
	rxEntry, err := p.Next()
	if err != nil {
		t.Fatalf("Next (rx): %v", err)
	}
	if rxEntry.Direction != RX || rxEntry.TimestampMs != 5 || !bytes.Equal(rxEntry.Data, []byte{0xAA, 0xBB}) {
		t.Errorf("rx entry = %+v, want {ts:5 dir:RX data:[AA BB]}", rxEntry)
	}

	txEntry, err := p.Next()
	if err != nil {
		t.Fatalf("Next (tx): %v", err)
	}
	if txEntry.Direction != TX || txEntry.TimestampMs != 8 || !bytes.Equal(txEntry.Data, []byte{0xCC}) {
		t.Errorf("tx entry = %+v, want {ts:8 dir:TX data:[CC]}", txEntry)
	}
}
