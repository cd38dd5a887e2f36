// Command hilsim runs the bridge core and drivesim's drive emulator
// against each other over an in-process loopback HAL, as a runnable
// rehearsal tool rather than only a test: issue OPEN partway through
// and watch the reported drive state and position follow the
// emulator's physics model to the target. Status is printed every 500
// ticks, and a full travel takes about 50 ticks, so with the default
// flags the printout goes from closed straight to open.
package main

import (
	"flag"
	"fmt"
	"log"

	"hcp2bridge.dev/busdriver"
	"hcp2bridge.dev/drivesim"
	"hcp2bridge.dev/hal/halqueue"
	"hcp2bridge.dev/hcp2"
	"hcp2bridge.dev/hpcore"
)

func main() {
	ticks := flag.Int("ticks", 8000, "number of simulated 1ms ticks")
	openAt := flag.Int("open-at", 2000, "tick at which an OPEN command is issued")
	flag.Parse()

	clock := &halqueue.Clock{}
	bridgePort, drivePort := halqueue.Loopback(clock)

	shared := hcp2.NewSharedState()
	engine := hcp2.NewEngine()
	drv := busdriver.NewDriver(bridgePort, engine, shared)
	commander := hpcore.NewCommander(shared)

	em := drivesim.NewEmulator(drivePort)
	em.ScanAddress = hcp2.AddrDrive

	log.Printf("hilsim: running %d ticks, issuing OPEN at tick %d", *ticks, *openAt)
	for t := 0; t < *ticks; t++ {
		em.Tick(clock.Now())
		drv.Poll()

		if t == *openAt {
			if !commander.Issue(hcp2.CmdOpen, 200) {
				log.Println("hilsim: could not issue OPEN, owner busy")
			}
		}
		if t%500 == 0 {
			st := commander.Status()
			fmt.Printf("t=%-5d emulator=%-9s state=%-8s position=%-3d light=%v physics_pos=%.1f\n",
				t, em.State(), st.State, st.Position, st.Light, em.Physics.Position)
		}
		clock.Advance(1)
	}
}
