package pendulum

import (
	"math"
	"testing"
)

func TestStepTimingInvariant(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	ig := NewIntegrator(p)

	state := State{Phi: 0.087}
	tBefore := 0.0
	dt := 0.001

	var out StateSequence
	_, tAfter := ig.SimulateStep(state, tBefore, 1.0, dt, &out)

	if tAfter < tBefore {
		t.Fatalf("time went backwards: %v -> %v", tBefore, tAfter)
	}
	if math.Abs(tAfter-(tBefore+dt)) >= 1e-12 {
		t.Errorf("step time drift too large: got %v want ~%v", tAfter, tBefore+dt)
	}
}

func TestSimulateShorterThanStepIsNoop(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	ig := NewIntegrator(p)

	var out StateSequence
	state, tEnd := ig.Simulate(State{}, 0, 0, 0.0005, 0.001, &out)

	if len(out) != 0 {
		t.Fatalf("expected no recorded steps for d < dt, got %d", len(out))
	}
	if state != (State{}) || tEnd != 0 {
		t.Fatalf("expected state/time unchanged, got state=%+v t=%v", state, tEnd)
	}
}

func TestZeroForceZeroAngleStaysAtRest(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	ig := NewIntegrator(p)

	initial := State{X: 1.5, V: 0, Phi: 0, Omega: 0}
	var out StateSequence
	ig.Simulate(initial, 0, 0, 1.0, 0.001, &out)

	for _, ts := range out {
		if math.Abs(ts.State.X-initial.X) > 1e-6 {
			t.Errorf("x drifted at t=%v: got %v want %v", ts.T, ts.State.X, initial.X)
		}
		if math.Abs(ts.State.Phi) > 1e-9 || math.Abs(ts.State.Omega) > 1e-9 {
			t.Errorf("unstable-upright-at-zero-angle equilibrium should hold at t=%v: phi=%v omega=%v", ts.T, ts.State.Phi, ts.State.Omega)
		}
	}
}

func TestSmallAngleUnstableOscillatesAndBounded(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	ig := NewIntegrator(p)

	initial := State{Phi: 0.05}
	var out StateSequence
	ig.Simulate(initial, 0, 0, 2.0, 0.001, &out)

	sawPositive, sawNegative := false, false
	for _, ts := range out {
		if math.IsNaN(ts.State.Phi) || math.IsInf(ts.State.Phi, 0) {
			t.Fatalf("phi diverged to non-finite at t=%v", ts.T)
		}
		if ts.State.Phi > 0 {
			sawPositive = true
		}
		if ts.State.Phi < 0 {
			sawNegative = true
		}
	}
	if !sawPositive || !sawNegative {
		t.Errorf("expected phi to swing through zero (unstable but bounded oscillation), sawPositive=%v sawNegative=%v", sawPositive, sawNegative)
	}
}

// TestS1BareSimulation reproduces spec scenario S1: pendulum with
// m=0.2,M=0.5,I=0.006,l=0.3, state0=(0,0,0.087,0), F=1.0, dt=0.001, d=10.0.
func TestS1BareSimulation(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	plant := NewPlant(p, 1.0, State{Phi: 0.087})

	var out StateSequence
	plant.Simulate(10.0, 0.001, &out)

	tEnd := plant.GetTime()
	if !(10.0-0.001 < tEnd && tEnd <= 10.0) {
		t.Errorf("final time %v not in (%v, %v]", tEnd, 10.0-0.001, 10.0)
	}
	if len(out) < 9990 || len(out) > 10000 {
		t.Errorf("expected ~10000 recorded states, got %d", len(out))
	}

	// Instability: |phi| should grow from its initial magnitude over the
	// first part of the run before any control intervenes.
	initialAbsPhi := math.Abs(0.087)
	laterAbsPhi := math.Abs(out[len(out)/4].State.Phi)
	if laterAbsPhi <= initialAbsPhi {
		t.Errorf("expected |phi| to grow under the unstable upright equilibrium, initial=%v later=%v", initialAbsPhi, laterAbsPhi)
	}
}
