package sim

import (
	"github.com/ipvs-ncs/invpend-ncs/pkg/control"
	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
)

// PIDAngleController drives the pole angle to a fixed setpoint with a
// single PID loop, adapting control.PID to the Controller interface.
type PIDAngleController struct {
	pid      *control.PID
	setpoint float64
}

// NewPIDAngleController returns a Controller regulating phi to setpoint.
func NewPIDAngleController(pid *control.PID, setpoint float64) *PIDAngleController {
	return &PIDAngleController{pid: pid, setpoint: setpoint}
}

// ControlFromState computes u = -pid.Control(setpoint, phi, t), matching
// original_source/src/apps/simulate-event_queue.cc's PID branch.
func (c *PIDAngleController) ControlFromState(ts pendulum.TimeState) float64 {
	return -c.pid.Control(c.setpoint, ts.State.Phi, ts.T)
}

// LQRController adapts control.LQR to the Controller interface.
type LQRController struct {
	lqr control.LQR
}

// NewLQRController returns a Controller driving the full state to the
// origin via a fixed LQR gain.
func NewLQRController(lqr control.LQR) *LQRController {
	return &LQRController{lqr: lqr}
}

// ControlFromState computes u = lqr.Control(x, v, phi, omega).
func (c *LQRController) ControlFromState(ts pendulum.TimeState) float64 {
	s := ts.State
	return c.lqr.Control(s.X, s.V, s.Phi, s.Omega)
}

// Clamp limits for the cascade controller of spec §4.G: velocity setpoint
// clamped to +-VClamp [m/s], angle setpoint clamped to +-PhiClamp [rad]
// (~20 degrees).
const (
	VClamp   = 2.5
	PhiClamp = 0.349
)

// PositionRefFunc computes the time-varying position setpoint r(t) driving
// the cascade controller, e.g. r(t) = 10*sin(0.2*t) + d/2 of spec §4.G/S6.
type PositionRefFunc func(t float64) float64

// CascadeController implements the three-nested-PID position tracking
// cascade of spec §4.G: an outer position loop produces a velocity
// setpoint (clamped), a middle velocity loop produces an angle setpoint
// (clamped), and an inner angle loop produces the actuation force.
// Grounded on original_source/src/apps/simulate-position_angle.cc.
type CascadeController struct {
	pidX     *control.PID
	pidV     *control.PID
	pidPhi   *control.PID
	ref      PositionRefFunc
	vClamp   float64
	phiClamp float64
}

// NewCascadeController returns a CascadeController with the given inner
// PIDs, position reference function, and clamp limits.
func NewCascadeController(pidX, pidV, pidPhi *control.PID, ref PositionRefFunc, vClamp, phiClamp float64) *CascadeController {
	return &CascadeController{pidX: pidX, pidV: pidV, pidPhi: pidPhi, ref: ref, vClamp: vClamp, phiClamp: phiClamp}
}

// ControlFromState runs the three-stage cascade: v_ref = -pidX.Control(r(t),
// x, t) clamped to +-vClamp; phi_ref = pidV.Control(v_ref, v, t) clamped to
// +-phiClamp; u = -pidPhi.Control(phi_ref, phi, t).
func (c *CascadeController) ControlFromState(ts pendulum.TimeState) float64 {
	s := ts.State
	t := ts.T

	r := c.ref(t)
	vRef := clamp(-c.pidX.Control(r, s.X, t), c.vClamp)
	phiRef := clamp(c.pidV.Control(vRef, s.V, t), c.phiClamp)
	return -c.pidPhi.Control(phiRef, s.Phi, t)
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
