package drivesim

import (
	"testing"

	"hcp2bridge.dev/hcp2"
)

func TestPhysicsTickSlewsAndSnaps(t *testing.T) {
	p := NewPhysics()
	p.Target = 10

	p.Tick()
	if p.Position != 4 {
		t.Fatalf("Position after one tick = %v, want 4", p.Position)
	}
	p.Tick()
	if p.Position != 8 {
		t.Fatalf("Position after two ticks = %v, want 8", p.Position)
	}
	// within Speed of target: should snap exactly rather than overshoot.
	p.Tick()
	if p.Position != 10 {
		t.Fatalf("Position after three ticks = %v, want 10 (snapped)", p.Position)
	}
	p.Tick()
	if p.Position != 10 {
		t.Fatalf("Position after settling = %v, want unchanged 10", p.Position)
	}
}

func TestPhysicsTickClampsToRange(t *testing.T) {
	p := NewPhysics()
	p.Position = 2
	p.Target = -50
	p.Tick()
	if p.Position != 0 {
		t.Errorf("Position = %v, want clamped to 0", p.Position)
	}

	p.Position = 198
	p.Target = 500
	p.Tick()
	if p.Position != 200 {
		t.Errorf("Position = %v, want clamped to 200", p.Position)
	}
}

func TestPhysicsApplyOpenClose(t *testing.T) {
	p := NewPhysics()
	p.Apply(hcp2.CmdOpen)
	if p.Target != 200 {
		t.Errorf("Target after OPEN = %v, want 200", p.Target)
	}
	p.Apply(hcp2.CmdClose)
	if p.Target != 0 {
		t.Errorf("Target after CLOSE = %v, want 0", p.Target)
	}
}

func TestPhysicsApplyStopHoldsCurrentPosition(t *testing.T) {
	p := NewPhysics()
	p.Position = 77
	p.Apply(hcp2.CmdStop)
	if p.Target != 77 {
		t.Errorf("Target after STOP = %v, want 77 (current position)", p.Target)
	}
}

func TestPhysicsApplyHalfOpen(t *testing.T) {
	p := NewPhysics()
	p.Apply(hcp2.CmdHalfOpen)
	if p.Target != 100 {
		t.Errorf("Target after HALF_OPEN = %v, want 100", p.Target)
	}
}

func TestPhysicsApplyVentTogglesBackAndForth(t *testing.T) {
	p := NewPhysics()
	p.Apply(hcp2.CmdVent)
	if p.Target != 20 {
		t.Fatalf("Target after first VENT = %v, want 20", p.Target)
	}
	p.Apply(hcp2.CmdVent)
	if p.Target != 0 {
		t.Fatalf("Target after second VENT = %v, want 0 (toggled off)", p.Target)
	}
}

func TestPhysicsApplyToggleLight(t *testing.T) {
	p := NewPhysics()
	if p.Light {
		t.Fatal("Light should start off")
	}
	p.Apply(hcp2.CmdToggleLight)
	if !p.Light {
		t.Error("Light should be on after first toggle")
	}
	p.Apply(hcp2.CmdToggleLight)
	if p.Light {
		t.Error("Light should be off after second toggle")
	}
}

func TestPhysicsStateThresholds(t *testing.T) {
	cases := []struct {
		position, target float32
		want              hcp2.DriveState
	}{
		{position: 0, target: 50, want: hcp2.StateOpening},
		{position: 50, target: 0, want: hcp2.StateClosing},
		{position: 200, target: 200, want: hcp2.StateOpen},
		{position: 0, target: 0, want: hcp2.StateClosed},
		{position: 100, target: 100, want: hcp2.StateHalfOpenReached},
		{position: 150, target: 150, want: hcp2.StateStopped},
	}
	for _, c := range cases {
		p := NewPhysics()
		p.Position = c.position
		p.Target = c.target
		if got := p.State(); got != c.want {
			t.Errorf("State() at position=%v target=%v = %v, want %v", c.position, c.target, got, c.want)
		}
	}
}
