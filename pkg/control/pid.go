// Package control implements the PID and LQR control laws that compute an
// actuation force from plant state.
package control

import "fmt"

// PID is a scalar PID controller with trapezoidal integral accumulation and
// backward-difference derivative estimation.
type PID struct {
	kp, ki, kd float64

	eint  float64
	eprev float64
	tprev float64
}

// NewPID returns a PID controller with the given gains and zeroed internal
// state (eint, eprev, tprev all 0).
func NewPID(kp, ki, kd float64) *PID {
	return &PID{kp: kp, ki: ki, kd: kd}
}

// Control computes the control output u for the given setpoint r,
// measurement y, and time t. t must be non-decreasing across calls
// (dt = t - tprev >= 0); a decreasing t is a contract violation and panics,
// matching the fatal assertion of the original controller.
func (p *PID) Control(setpoint, measurement, t float64) float64 {
	e := measurement - setpoint

	dt := t - p.tprev
	if dt < 0 {
		panic(fmt.Sprintf("control: non-monotonic time passed to PID.Control: t=%v < tprev=%v", t, p.tprev))
	}

	p.eint += 0.5 * (e + p.eprev) * dt

	var ediff float64
	if dt > 0 {
		ediff = (e - p.eprev) / dt
	}

	u := p.kp*e + p.ki*p.eint + p.kd*ediff

	p.eprev = e
	p.tprev = t

	return u
}

// Reset clears the accumulated integral and derivative history, leaving the
// gains unchanged. Useful when reusing a PID across independent runs.
func (p *PID) Reset() {
	p.eint = 0
	p.eprev = 0
	p.tprev = 0
}
