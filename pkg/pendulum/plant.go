package pendulum

// Plant owns the current params, state, applied force, and simulation time
// of a single cart-pendulum run. It is created once per run and mutated
// only through Simulate/SimulateStep/SetForce; it is not internally
// synchronized — callers sharing a Plant across goroutines (see the live
// plant cycle in package liverun) must serialize access themselves.
type Plant struct {
	params     Params
	integrator Integrator
	state      State
	force      float64
	t          float64
}

// NewPlant creates a Plant with the given params, initial force, and
// initial state. Simulation time starts at 0.
func NewPlant(p Params, f0 float64, state0 State) *Plant {
	return &Plant{
		params:     p,
		integrator: NewIntegrator(p),
		state:      state0,
		force:      f0,
	}
}

// GetState returns the current state.
func (p *Plant) GetState() State { return p.state }

// GetTime returns the current simulation time [s].
func (p *Plant) GetTime() float64 { return p.t }

// GetForce returns the currently applied force [N].
func (p *Plant) GetForce() float64 { return p.force }

// SetForce sets the applied force for all subsequent Simulate/SimulateStep
// calls, until changed again.
func (p *Plant) SetForce(f float64) { p.force = f }

// Simulate advances the plant for duration d at step size dt, starting at
// the current state and time, with the force held constant for the whole
// call. Recorded states are appended to out, unless out is nil, in which
// case they are discarded. If d < dt, this is a no-op.
func (p *Plant) Simulate(d, dt float64, out *StateSequence) {
	p.state, p.t = p.integrator.Simulate(p.state, p.t, p.force, d, dt, out)
}

// SimulateStep advances the plant by exactly one step of size dt. out may
// be nil, in which case the recorded state is discarded.
func (p *Plant) SimulateStep(dt float64, out *StateSequence) {
	p.state, p.t = p.integrator.SimulateStep(p.state, p.t, p.force, dt, out)
}
