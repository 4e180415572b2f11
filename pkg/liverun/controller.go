package liverun

import (
	"context"
	"net"
	"time"

	"github.com/ipvs-ncs/invpend-ncs/internal/ncslog"
	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
	"github.com/ipvs-ncs/invpend-ncs/pkg/wire"
)

// Controller is the subset of sim.Controller the live controller cycle
// needs, restated here so that package liverun does not import package sim.
type Controller interface {
	ControlFromState(ts pendulum.TimeState) float64
}

// ControllerCycle runs a live controller: block on an incoming state
// packet, demarshal it, compute an actuation force, marshal it, and send
// it back to the source address the packet arrived from — grounded on
// original_source/src/apps/ncs-controller.cc's recvfrom/sendto loop.
type ControllerCycle struct {
	conn *net.UDPConn
	ctrl Controller
	log  *ncslog.Logger
}

// NewControllerCycle builds a ControllerCycle serving requests on conn with
// ctrl.
func NewControllerCycle(conn *net.UDPConn, ctrl Controller, log *ncslog.Logger) *ControllerCycle {
	if log == nil {
		log = ncslog.Default()
	}
	return &ControllerCycle{conn: conn, ctrl: ctrl, log: log}
}

// Run serves incoming state packets until ctx is cancelled or the socket
// errors.
func (cc *ControllerCycle) Run(ctx context.Context) error {
	buf := make([]byte, 65535)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cc.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, addr, err := cc.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			cc.log.Errorf("controller receive: %v", err)
			continue
		}

		st, err := wire.DemarshalState(buf[:n])
		if err != nil {
			cc.log.Errorf("controller demarshal state: %v", err)
			continue
		}

		ts := pendulum.TimeState{
			T: 0.000001 * float64(st.TimeUsec),
			State: pendulum.State{
				X:     st.X,
				V:     st.V,
				Phi:   st.Angle,
				Omega: st.Omega,
			},
		}
		u := cc.ctrl.ControlFromState(ts)

		out := wire.MarshalUpdate(wire.Update{TimeUsec: st.TimeUsec, U: u})
		if _, err := cc.conn.WriteToUDP(out, addr); err != nil {
			cc.log.Errorf("controller send update: %v", err)
		}
	}
}
