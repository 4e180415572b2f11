// Package sim wires a Plant and a controller together as actors on an
// ncsevent.Queue, implementing the out-of-order/stale-packet policy of the
// networked control loop: the plant applies actuation only for in-order
// RECEIVE events, and the controller computes actuation only for the SEND
// it issued most recently.
package sim

import (
	"github.com/ipvs-ncs/invpend-ncs/internal/ncslog"
	"github.com/ipvs-ncs/invpend-ncs/pkg/ncsevent"
	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
)

// defaultRingSize bounds the per-packet force ring buffer, replacing the
// original's unboundedly growing vector (spec design note: "Per-packet
// ring u_vec"). It must exceed the maximum number of packets that can be
// in flight at once for a given trace/cycle-time combination.
const defaultRingSize = 4096

// Controller is the subset of control.PID/control.LQR the orchestrator
// needs: compute an actuation force from the most recent recorded state.
type Controller interface {
	// ControlFromState computes u for the latest recorded TimeState.
	ControlFromState(ts pendulum.TimeState) float64
}

// Orchestrator owns the shared per-run scratch state (force ring,
// sequence-number counters) described in spec §4.G, and exposes the two
// actor callbacks to subscribe on an ncsevent.Queue.
type Orchestrator struct {
	plant  *pendulum.Plant
	ctrl   Controller
	log    *ncslog.Logger
	dt     float64
	states pendulum.StateSequence

	uRing             []float64
	uLen              int // number of forces ever appended (>= 1, index 0 is the seed 0.0)
	nextSendSeqNumber uint64
	currentRcvSeqNumber uint64
}

// New creates an Orchestrator over plant and ctrl, simulating UPDATE ticks
// of size dt. log may be nil (ncslog.Default() is used).
func New(plant *pendulum.Plant, ctrl Controller, dt float64, log *ncslog.Logger) *Orchestrator {
	if log == nil {
		log = ncslog.Default()
	}
	o := &Orchestrator{
		plant: plant,
		ctrl:  ctrl,
		log:   log,
		dt:    dt,
		uRing: make([]float64, defaultRingSize),
	}
	o.uRing[0] = 0.0
	o.uLen = 1
	// Packet numbers are 1-indexed (the first packet ever sent is pktNr=1),
	// so nextSendSeqNumber starts at 1: the controller's pktNr ==
	// nextSendSeqNumber-1 gate then matches the packet just counted.
	o.nextSendSeqNumber = 1
	return o
}

// States returns the recorded state trajectory so far.
func (o *Orchestrator) States() pendulum.StateSequence { return o.states }

// ULen returns the number of forces ever appended to the ring (1 plus the
// number of in-order SEND events the controller has accepted) — invariant
// 10 of spec §8.
func (o *Orchestrator) ULen() int { return o.uLen }

// CurrentRcvSeqNumber returns the largest packet number whose force has
// been applied to the plant so far.
func (o *Orchestrator) CurrentRcvSeqNumber() uint64 { return o.currentRcvSeqNumber }

func (o *Orchestrator) uAt(pktNr uint64) float64 {
	return o.uRing[pktNr%uint64(len(o.uRing))]
}

func (o *Orchestrator) appendU(u float64) {
	o.uRing[o.uLen%len(o.uRing)] = u
	o.uLen++
}

// Attach registers the plant and controller actors on q, in the order the
// plant then controller must see every event (plant first, per spec §4.G).
func (o *Orchestrator) Attach(q *ncsevent.Queue) {
	q.AddReceiver(o.plantActor)
	q.AddReceiver(o.controllerActor)
}

// plantActor implements spec §4.G's plant-side rules: advance on UPDATE;
// accept RECEIVE iff pktNr >= currentRcvSeqNumber, else drop as
// stale/out-of-order; count SEND events.
func (o *Orchestrator) plantActor(e ncsevent.Event) {
	switch e.Type {
	case ncsevent.Update:
		o.plant.SimulateStep(o.dt, &o.states)
	case ncsevent.Receive:
		if e.PktNr >= o.currentRcvSeqNumber {
			o.plant.SetForce(o.uAt(e.PktNr))
			o.currentRcvSeqNumber = e.PktNr
		} else {
			o.log.Debugf("plant: dropping stale RECEIVE for pkt %d (current %d)", e.PktNr, o.currentRcvSeqNumber)
		}
	case ncsevent.Send:
		o.nextSendSeqNumber++
	}
}

// controllerActor implements spec §4.G's controller-side rule: compute u
// only for the packet just sent (pktNr == nextSendSeqNumber-1), logging an
// out-of-order notice otherwise.
func (o *Orchestrator) controllerActor(e ncsevent.Event) {
	if e.Type != ncsevent.Send {
		return
	}
	if len(o.states) == 0 {
		return
	}
	if e.PktNr != o.nextSendSeqNumber-1 {
		o.log.Debugf("controller: out-of-order packet %d, no update (next expected %d)", e.PktNr, o.nextSendSeqNumber-1)
		return
	}

	u := o.ctrl.ControlFromState(o.states[len(o.states)-1])
	o.appendU(u)
}
