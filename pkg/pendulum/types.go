// Package pendulum implements the nonlinear cart-pendulum plant: its
// equations of motion, a fixed-step RK4 integrator, and the Plant type that
// owns the live state of a single run.
package pendulum

// Gravity is the gravitational acceleration used throughout the plant
// model [m/s^2].
const Gravity = 9.8067

// State is the ordered 4-tuple (x, v, phi, omega): cart position [m], cart
// velocity [m/s], pole angle from vertical [rad], pole angular velocity
// [rad/s]. No wraparound is applied to Phi; callers choose their own angle
// convention.
type State struct {
	X     float64
	V     float64
	Phi   float64
	Omega float64
}

// add returns s + other, element-wise.
func (s State) add(other State) State {
	return State{
		X:     s.X + other.X,
		V:     s.V + other.V,
		Phi:   s.Phi + other.Phi,
		Omega: s.Omega + other.Omega,
	}
}

// scale returns s scaled by k, element-wise.
func (s State) scale(k float64) State {
	return State{X: s.X * k, V: s.V * k, Phi: s.Phi * k, Omega: s.Omega * k}
}

// slice exposes s as a 4-vector for gonum/floats combination routines.
func (s State) slice() []float64 { return []float64{s.X, s.V, s.Phi, s.Omega} }

func stateFromSlice(v []float64) State {
	return State{X: v[0], V: v[1], Phi: v[2], Omega: v[3]}
}

// Params are the immutable physical parameters of the cart-pendulum.
type Params struct {
	M     float64 // pendulum mass [kg], > 0
	MCart float64 // cart mass [kg], > 0
	I     float64 // moment of inertia [kg*m^2], >= 0
	L     float64 // pendulum length to centre of mass [m], > 0
}

// TimeState pairs a simulation time with the state recorded at that time.
type TimeState struct {
	T     float64
	State State
}

// StateSequence is an ordered, append-only sequence of TimeState, monotone
// non-decreasing in T. Producers (the Integrator) only ever append;
// consumers only read.
type StateSequence []TimeState
