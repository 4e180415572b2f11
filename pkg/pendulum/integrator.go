package pendulum

import "gonum.org/v1/gonum/floats"

// Integrator advances a (State, t, F) triple with a classical fixed-step
// RK4 scheme. It holds no state of its own beyond the params it was given
// at construction (the force is passed on each call); Plant is the stateful
// wrapper callers normally use.
type Integrator struct {
	params Params
}

// NewIntegrator returns an Integrator for the given physical parameters.
func NewIntegrator(p Params) Integrator {
	return Integrator{params: p}
}

// Step advances x by one RK4 step of size dt under constant force F,
// returning the new state. Dynamics are re-evaluated at each of the four
// stages (not frozen at the initial slope), per classical RK4.
func (ig Integrator) Step(x State, F, dt float64) State {
	k1 := Derivative(x, F, ig.params)
	k2 := Derivative(x.add(k1.scale(dt/2)), F, ig.params)
	k3 := Derivative(x.add(k2.scale(dt/2)), F, ig.params)
	k4 := Derivative(x.add(k3.scale(dt)), F, ig.params)

	sum := make([]float64, 4)
	floats.AddScaled(sum, 1, k1.slice())
	floats.AddScaled(sum, 2, k2.slice())
	floats.AddScaled(sum, 2, k3.slice())
	floats.AddScaled(sum, 1, k4.slice())
	floats.Scale(dt/6, sum)

	next := stateFromSlice(sum)
	return x.add(next)
}

// Simulate advances (state, t) by floor(d/dt) steps, appending one
// TimeState per completed step to out (observed after each full RK4 step,
// never at intermediate stages). It returns the final (state, t). If
// d < dt, no steps are taken and out is unchanged. The final recorded time
// t_end satisfies t_start + d - dt < t_end <= t_start + d. out may be nil,
// in which case recorded states are simply discarded.
func (ig Integrator) Simulate(state State, t, F, d, dt float64, out *StateSequence) (State, float64) {
	steps := int(d / dt)
	tStart := t
	for i := 0; i < steps; i++ {
		state = ig.Step(state, F, dt)
		t = tStart + float64(i+1)*dt
		if out != nil {
			*out = append(*out, TimeState{T: t, State: state})
		}
	}
	return state, t
}

// SimulateStep advances (state, t) by exactly one step of size dt, appending
// the resulting TimeState to out, and returns the new (state, t). out may be
// nil, in which case the recorded state is simply discarded.
func (ig Integrator) SimulateStep(state State, t, F, dt float64, out *StateSequence) (State, float64) {
	state = ig.Step(state, F, dt)
	t += dt
	if out != nil {
		*out = append(*out, TimeState{T: t, State: state})
	}
	return state, t
}
