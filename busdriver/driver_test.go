package busdriver_test

import (
	"testing"

	"hcp2bridge.dev/busdriver"
	"hcp2bridge.dev/hal/halqueue"
	"hcp2bridge.dev/hcp2"
)

func pollQty2Frame() []byte {
	body := []byte{0x02, 0x17, 0x9C, 0xB9, 0x00, 0x02, 0x9C, 0x41, 0x00, 0x00, 0x00}
	return hcp2.AppendCRC(append([]byte(nil), body...), body)
}

func TestDriverRoundTripAfterSilence(t *testing.T) {
	clock := &halqueue.Clock{}
	driverPort, peerPort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	drv := busdriver.NewDriver(driverPort, hcp2.NewEngine(), shared)

	poll := pollQty2Frame()
	peerPort.UARTWrite(poll)

	// silence has not yet elapsed: Poll should not dispatch.
	drv.Poll()
	if n := peerPort.UARTRead(make([]byte, 64)); n != 0 {
		t.Fatalf("got a premature response of %d bytes", n)
	}

	clock.Advance(11)
	drv.Poll()

	resp := make([]byte, 64)
	n := peerPort.UARTRead(resp)
	if n == 0 {
		t.Fatal("expected a response after silence timeout elapsed")
	}
	if !hcp2.ValidCRC(resp[:n]) {
		t.Errorf("response % x does not carry a valid CRC", resp[:n])
	}
	if resp[0] != hcp2.AddrDrive || resp[1] != hcp2.FuncReadWriteMultiple {
		t.Errorf("response header = % x", resp[:2])
	}
}

func TestDriverAccumulatesAcrossPartialReads(t *testing.T) {
	clock := &halqueue.Clock{}
	driverPort, peerPort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	drv := busdriver.NewDriver(driverPort, hcp2.NewEngine(), shared)

	poll := pollQty2Frame()
	peerPort.UARTWrite(poll[:len(poll)/2])
	drv.Poll()
	clock.Advance(1)
	peerPort.UARTWrite(poll[len(poll)/2:])
	drv.Poll()
	clock.Advance(11)
	drv.Poll()

	resp := make([]byte, 64)
	n := peerPort.UARTRead(resp)
	if n == 0 {
		t.Fatal("expected a response once the accumulated frame closed")
	}
}

func TestDriverSkipsWhenOwnerHeldByHPCore(t *testing.T) {
	clock := &halqueue.Clock{}
	driverPort, peerPort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	shared.SetOwner(hcp2.OwnerHP)
	drv := busdriver.NewDriver(driverPort, hcp2.NewEngine(), shared)

	poll := pollQty2Frame()
	peerPort.UARTWrite(poll)
	drv.Poll() // reads the frame, latches lastRxMs, silence not yet elapsed
	clock.Advance(11)
	drv.Poll() // silence elapsed: attempts dispatch, finds owner held by HP core

	if n := peerPort.UARTRead(make([]byte, 64)); n != 0 {
		t.Fatalf("expected no response while HP core held owner flag, got %d bytes", n)
	}
	if shared.Owner() != hcp2.OwnerHP {
		t.Errorf("owner flag = %v, want unchanged OwnerHP", shared.Owner())
	}

	// the dropped frame must not wedge the accumulator: the next frame
	// with owner free should dispatch normally.
	shared.SetOwner(hcp2.OwnerFree)
	peerPort.UARTWrite(poll)
	drv.Poll()
	clock.Advance(11)
	drv.Poll()
	if n := peerPort.UARTRead(make([]byte, 64)); n == 0 {
		t.Fatal("expected a response once the owner flag was released")
	}
}

func TestDriverSequencesTXEnableAroundResponse(t *testing.T) {
	clock := &halqueue.Clock{}
	driverPort, peerPort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	drv := busdriver.NewDriver(driverPort, hcp2.NewEngine(), shared)

	poll := pollQty2Frame()
	peerPort.UARTWrite(poll)
	drv.Poll()
	clock.Advance(11)
	drv.Poll()

	if n := peerPort.UARTRead(make([]byte, 64)); n == 0 {
		t.Fatal("expected a response to check TX-enable sequencing against")
	}
	if driverPort.TXEnabled() {
		t.Error("TX-enable left asserted after Poll returned")
	}
}

func TestDriverWriteOnlyFrameProducesNoResponse(t *testing.T) {
	clock := &halqueue.Clock{}
	driverPort, peerPort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	drv := busdriver.NewDriver(driverPort, hcp2.NewEngine(), shared)

	statusBody := make([]byte, 23)
	statusBody[0], statusBody[1] = 0x02, 0x10
	statusBody[2], statusBody[3] = 0x9D, 0x31
	statusBody[4], statusBody[5] = 0x00, 0x09
	statusBody[6] = 18
	frame := hcp2.AppendCRC(append([]byte(nil), statusBody...), statusBody)

	peerPort.UARTWrite(frame)
	drv.Poll()
	clock.Advance(11)
	drv.Poll()

	if n := peerPort.UARTRead(make([]byte, 64)); n != 0 {
		t.Errorf("write-only frame produced a response of %d bytes", n)
	}
}
