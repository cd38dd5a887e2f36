// Command hpcore is a minimal stand-in for the HP core's command
// surface: it exists so the IPC contract (hpcore package) is
// exercisable as a binary. The HP core's real upstream connectivity
// (MQTT/HTTP/Matter/...) is not implemented here; this tool only
// issues one command against a fresh, unshared hcp2.SharedState and
// prints the result, since cross-process shared memory between two
// independently-built cores depends on a physical wake/boot flow this
// repo doesn't model. See cmd/hilsim for the end-to-end demonstration
// with a real LP side attached.
package main

import (
	"flag"
	"fmt"
	"log"

	"hcp2bridge.dev/hcp2"
	"hcp2bridge.dev/hpcore"
)

func main() {
	cmd := flag.String("cmd", "open", "command to issue: open, close, stop, half_open, vent, toggle_light")
	target := flag.Uint("target", 200, "target position, 0-200")
	flag.Parse()

	c, err := parseCommand(*cmd)
	if err != nil {
		log.Fatalf("hpcore: %v", err)
	}

	shared := hcp2.NewSharedState()
	commander := hpcore.NewCommander(shared)
	if !commander.Issue(c, uint8(*target)) {
		log.Fatal("hpcore: could not acquire shared state (LP driver mid-dispatch)")
	}

	st := commander.Status()
	fmt.Printf("issued %s, target=%d; status: state=%s position=%d light=%v\n",
		c, *target, st.State, st.Position, st.Light)
}

func parseCommand(s string) (hcp2.Command, error) {
	switch s {
	case "open":
		return hcp2.CmdOpen, nil
	case "close":
		return hcp2.CmdClose, nil
	case "stop":
		return hcp2.CmdStop, nil
	case "half_open":
		return hcp2.CmdHalfOpen, nil
	case "vent":
		return hcp2.CmdVent, nil
	case "toggle_light":
		return hcp2.CmdToggleLight, nil
	default:
		return hcp2.CmdNone, fmt.Errorf("unknown command %q", s)
	}
}
