package pendulum

import (
	"math"
	"testing"
)

func TestDerivativeZeroAngleZeroForce(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	d := Derivative(State{X: 1, V: 0, Phi: 0, Omega: 0}, 0, p)

	if d.X != 0 {
		t.Errorf("expected x-dot = v = 0, got %v", d.X)
	}
	if d.Phi != 0 {
		t.Errorf("expected phi-dot = omega = 0, got %v", d.Phi)
	}
	if math.Abs(d.V) > 1e-12 || math.Abs(d.Omega) > 1e-12 {
		t.Errorf("expected v-dot and omega-dot = 0 at the unforced upright equilibrium, got v=%v omega=%v", d.V, d.Omega)
	}
}

func TestDerivativeFinite(t *testing.T) {
	p := Params{M: 0.2, MCart: 0.5, I: 0.006, L: 0.3}
	d := Derivative(State{X: 0, V: 1, Phi: 0.3, Omega: -0.5}, 2.0, p)

	vals := []float64{d.X, d.V, d.Phi, d.Omega}
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("component %d is not finite: %v", i, v)
		}
	}
}
