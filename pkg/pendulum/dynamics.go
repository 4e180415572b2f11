package pendulum

import "math"

// Derivative evaluates the nonlinear equations of motion of the
// cart-pendulum at state x under force F. It is a pure function: F is
// read, not mutated, and is treated as frozen for the duration of one
// integrator step by the caller. The function is total on finite inputs;
// divergence (non-finite results) is observable by the caller, not
// reported here.
func Derivative(x State, F float64, p Params) State {
	sinPhi := math.Sin(x.Phi)
	cosPhi := math.Cos(x.Phi)

	jt := p.I + p.M*p.L*p.L
	mt := p.MCart + p.M

	ratio := p.M * p.L * p.L / jt

	denomV := mt - p.M*ratio*cosPhi*cosPhi
	vDot := (-p.M*p.L*sinPhi*x.Omega*x.Omega + p.M*Gravity*ratio*sinPhi*cosPhi + F) / denomV

	denomOmega := jt*(mt/p.M) - p.M*(p.L*cosPhi)*(p.L*cosPhi)
	omegaDot := (-p.M*p.L*p.L*sinPhi*cosPhi*x.Omega*x.Omega + mt*Gravity*p.L*sinPhi + p.L*cosPhi*F) / denomOmega

	return State{
		X:     x.V,
		V:     vDot,
		Phi:   x.Omega,
		Omega: omegaDot,
	}
}
