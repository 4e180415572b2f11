package control

import "gonum.org/v1/gonum/floats"

// LQR is a fixed-gain linear state-feedback controller over the 4-vector
// state (x, v, phi, omega). It holds no mutable state.
type LQR struct {
	k [4]float64
}

// NewLQR returns an LQR controller with gain row-vector K.
func NewLQR(k [4]float64) LQR {
	return LQR{k: k}
}

// Control returns u = -(K . state) with state given as (x, v, phi, omega).
func (l LQR) Control(x, v, phi, omega float64) float64 {
	return -floats.Dot(l.k[:], []float64{x, v, phi, omega})
}

// ControlWithPositionRef returns u = -(k0*(x-posRef) + k1*v + k2*phi +
// k3*omega): the same fixed gain, but rejecting a position reference by
// shifting only the position term.
func (l LQR) ControlWithPositionRef(x, v, phi, omega, posRef float64) float64 {
	return l.Control(x-posRef, v, phi, omega)
}
