package busdriver_test

import (
	"testing"

	"hcp2bridge.dev/busdriver"
	"hcp2bridge.dev/drivesim"
	"hcp2bridge.dev/hal/halqueue"
	"hcp2bridge.dev/hcp2"
	"hcp2bridge.dev/hpcore"
)

// TestBridgeAndEmulatorDriveOpenToCompletion wires the bridge driver
// against drivesim's drive emulator over an in-process loopback bus and
// confirms that issuing OPEN through the HP-core commander is observed,
// after enough ticks, as the drive reporting its Open state at full
// travel — reproducing the end-to-end shape of the numbered wire
// scenarios without hardware.
func TestBridgeAndEmulatorDriveOpenToCompletion(t *testing.T) {
	clock := &halqueue.Clock{}
	bridgePort, drivePort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	drv := busdriver.NewDriver(bridgePort, hcp2.NewEngine(), shared)
	commander := hpcore.NewCommander(shared)
	em := drivesim.NewEmulator(drivePort)

	if !commander.Issue(hcp2.CmdOpen, 200) {
		t.Fatal("could not issue OPEN at start")
	}

	for i := 0; i < 20000; i++ {
		em.Tick(clock.Now())
		drv.Poll()
		clock.Advance(1)
	}

	st := commander.Status()
	if st.State != hcp2.StateOpen {
		t.Fatalf("final State = %v, want StateOpen after %d ticks", st.State, 20000)
	}
	if st.Position < 199 {
		t.Errorf("final Position = %d, want >= 199", st.Position)
	}
}

// TestBridgeAndEmulatorCloseAfterOpen exercises a command change
// mid-flight: OPEN first, then CLOSE before the door reaches full
// travel, confirming the reported state eventually reflects CLOSE.
func TestBridgeAndEmulatorCloseAfterOpen(t *testing.T) {
	clock := &halqueue.Clock{}
	bridgePort, drivePort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	drv := busdriver.NewDriver(bridgePort, hcp2.NewEngine(), shared)
	commander := hpcore.NewCommander(shared)
	em := drivesim.NewEmulator(drivePort)

	if !commander.Issue(hcp2.CmdOpen, 200) {
		t.Fatal("could not issue OPEN")
	}
	for i := 0; i < 2000; i++ {
		em.Tick(clock.Now())
		drv.Poll()
		clock.Advance(1)
	}
	if !commander.Issue(hcp2.CmdClose, 0) {
		t.Fatal("could not issue CLOSE")
	}
	for i := 0; i < 20000; i++ {
		em.Tick(clock.Now())
		drv.Poll()
		clock.Advance(1)
	}

	st := commander.Status()
	if st.State != hcp2.StateClosed {
		t.Fatalf("final State = %v, want StateClosed", st.State)
	}
}
