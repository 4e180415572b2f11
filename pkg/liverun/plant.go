// Package liverun drives the plant and controller as standalone processes
// exchanging UDP packets in real time, rather than as actors on a simulated
// event queue. It is grounded on
// original_source/src/apps/ncs-plant.cc/ncs-controller.cc, stripped of their
// SFML rendering loop (an explicit non-goal) and generalized from the
// fixed LQR-only gain to any sim.Controller.
package liverun

import (
	"context"
	"fmt"
	"math"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ipvs-ncs/invpend-ncs/internal/ncslog"
	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
	"github.com/ipvs-ncs/invpend-ncs/pkg/wire"
)

// logIntervalUsec matches original_source's LOG_INTERVAL_USEC.
const logIntervalUsec = 10000

// PlantCycle runs a live plant: a sampler loop that periodically transmits
// the plant's state to conn and integrates the dynamics against the wall
// clock, and a receiver goroutine that demarshals incoming update packets
// and hands the latest one to the sampler via an atomic most-recent-wins
// handoff (mirroring the original's update_ready compare-and-swap).
type PlantCycle struct {
	plant       *pendulum.Plant
	conn        *net.UDPConn
	cycleUsec   uint64
	dt          float64
	log         *ncslog.Logger
	logFile     *os.File

	updateReady atomic.Bool
	updateMu    sync.Mutex
	pendingU    float64
}

// NewPlantCycle builds a PlantCycle sampling/transmitting every cycleUsec
// microseconds, integrating with step dt, optionally appending
// "t_us,x,angle_deg" rows to logPath every 10ms.
func NewPlantCycle(plant *pendulum.Plant, conn *net.UDPConn, cycleUsec uint64, dt float64, logPath string, log *ncslog.Logger) (*PlantCycle, error) {
	if log == nil {
		log = ncslog.Default()
	}
	pc := &PlantCycle{plant: plant, conn: conn, cycleUsec: cycleUsec, dt: dt, log: log}

	if logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, fmt.Errorf("create plant log file %q: %w", logPath, err)
		}
		pc.logFile = f
	}
	return pc, nil
}

// Close releases the log file, if one was opened.
func (pc *PlantCycle) Close() error {
	if pc.logFile != nil {
		return pc.logFile.Close()
	}
	return nil
}

// Run drives the sampler and receiver goroutines until ctx is cancelled,
// mirroring the original's infinite main loop plus receiver thread as a pair
// of errgroup-coordinated goroutines.
func (pc *PlantCycle) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return pc.receiveLoop(ctx)
	})
	g.Go(func() error {
		return pc.sampleLoop(ctx)
	})

	return g.Wait()
}

func (pc *PlantCycle) receiveLoop(ctx context.Context) error {
	buf := make([]byte, 65535)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pc.conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, err := pc.conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			pc.log.Errorf("plant receive: %v", err)
			continue
		}

		upd, err := wire.DemarshalUpdate(buf[:n])
		if err != nil {
			pc.log.Errorf("plant demarshal update: %v", err)
			continue
		}

		pc.updateMu.Lock()
		pc.pendingU = upd.U
		pc.updateMu.Unlock()
		pc.updateReady.Store(true)
	}
}

func (pc *PlantCycle) sampleLoop(ctx context.Context) error {
	start := time.Now()
	nextCycleUsec := uint64(0)
	nextLogUsec := uint64(0)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		tCurrentUsec := uint64(time.Since(start).Microseconds())

		if nextCycleUsec <= tCurrentUsec {
			s := pc.plant.GetState()
			buf := wire.MarshalState(wire.State{
				TimeUsec: tCurrentUsec,
				Angle:    s.Phi,
				Omega:    s.Omega,
				X:        s.X,
				V:        s.V,
			})
			if _, err := pc.conn.Write(buf); err != nil {
				pc.log.Errorf("plant send state: %v", err)
			}
			nextCycleUsec += pc.cycleUsec
		}

		// Most-recent-wins handoff: if a fresh update landed since the last
		// cycle, apply it now; a weak CAS tolerating spurious failure is
		// fine since the receiver always overwrites with the newest value.
		if pc.updateReady.CompareAndSwap(true, false) {
			pc.updateMu.Lock()
			u := pc.pendingU
			pc.updateMu.Unlock()
			pc.plant.SetForce(u)
		}

		tOld := pc.plant.GetTime()
		d := 0.000001*float64(tCurrentUsec) - tOld
		if d >= pc.dt {
			pc.plant.Simulate(d, pc.dt, nil)
		}

		if pc.logFile != nil && nextLogUsec <= tCurrentUsec {
			s := pc.plant.GetState()
			angleDeg := s.Phi * (180.0 / math.Pi)
			if _, err := fmt.Fprintf(pc.logFile, "%d,%f,%f\n", tCurrentUsec, s.X, angleDeg); err != nil {
				pc.log.Errorf("plant log write: %v", err)
			}
			nextLogUsec += logIntervalUsec
		}
	}
}
