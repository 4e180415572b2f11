package pendulum

import "testing"

func TestNewPlantInitialState(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	plant := NewPlant(p, 2.5, State{X: 1, Phi: 0.1})

	if plant.GetForce() != 2.5 {
		t.Errorf("expected initial force 2.5, got %v", plant.GetForce())
	}
	if plant.GetTime() != 0 {
		t.Errorf("expected initial time 0, got %v", plant.GetTime())
	}
	if plant.GetState().X != 1 || plant.GetState().Phi != 0.1 {
		t.Errorf("unexpected initial state %+v", plant.GetState())
	}
}

func TestPlantSetForceAffectsSubsequentSteps(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	plant := NewPlant(p, 0, State{})

	var out1, out2 StateSequence
	plant.SimulateStep(0.001, &out1)

	plant.SetForce(5.0)
	plant.SimulateStep(0.001, &out2)

	if out1[0].State == out2[0].State {
		t.Errorf("expected state to diverge after changing force")
	}
}

func TestPlantSimulateNilOutDiscardsStates(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	plant := NewPlant(p, 0, State{Phi: 0.1})

	plant.Simulate(0.01, 0.001, nil)

	if plant.GetTime() != 0.01 {
		t.Errorf("expected time to advance to 0.01 even with nil out, got %v", plant.GetTime())
	}
}

func TestPlantSimulateStepNilOutDiscardsState(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	plant := NewPlant(p, 0, State{Phi: 0.1})

	plant.SimulateStep(0.001, nil)

	if plant.GetTime() != 0.001 {
		t.Errorf("expected time to advance to 0.001 even with nil out, got %v", plant.GetTime())
	}
}

func TestPlantSimulateStepAccumulatesTime(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	plant := NewPlant(p, 0, State{})

	var out StateSequence
	for i := 0; i < 5; i++ {
		plant.SimulateStep(0.001, &out)
	}

	if len(out) != 5 {
		t.Fatalf("expected 5 recorded states, got %d", len(out))
	}
	if plant.GetTime() != out[4].T {
		t.Errorf("plant time %v does not match last recorded time %v", plant.GetTime(), out[4].T)
	}
}
