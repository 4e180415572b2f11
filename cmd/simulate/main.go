// Command simulate runs the discrete-event NCS simulator over a recorded
// event trace, writing the resulting state trajectory to CSV. Flags match
// spec §6's abstract CLI contract (`-i/-o/-n/-d/-e`), grounded on
// original_source/src/apps/simulate-event_queue.cc and
// simulate-position_angle.cc.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ipvs-ncs/invpend-ncs/internal/ncslog"
	"github.com/ipvs-ncs/invpend-ncs/pkg/config"
	"github.com/ipvs-ncs/invpend-ncs/pkg/control"
	"github.com/ipvs-ncs/invpend-ncs/pkg/metrics"
	"github.com/ipvs-ncs/invpend-ncs/pkg/ncsevent"
	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
	"github.com/ipvs-ncs/invpend-ncs/pkg/sim"
	"github.com/ipvs-ncs/invpend-ncs/pkg/tracefmt"
)

// Default plant parameters, matching original_source's simulate apps.
const (
	defaultMass     = 0.2
	defaultCartMass = 0.5
	defaultInertia  = 0.006
	defaultLength   = 0.3
	defaultDT       = 0.0001
)

// Default LQR gain, matching original_source/src/apps/simulate-event_queue.cc's LQR_K_ANGLE.
var defaultLQRGain = [4]float64{-1.0000000000001679, -2.7126628569811633, 42.94618303488281, 5.411763498735041}

// simConfig is the YAML shape accepted by -config: plant parameters plus
// the LQR gain row, neither of which has a competing CLI flag of its own.
type simConfig struct {
	config.PendulumParams `yaml:",inline"`
	LQR                   config.LQRGains `yaml:"lqr"`
}

func main() {
	inputFlag := flag.String("i", "", "path to input event-trace CSV (required)")
	outputFlag := flag.String("o", "", "path to output state-trajectory CSV (required)")
	simNumberFlag := flag.Int("n", 0, "simulation number: 1 (cascade PID) or 2 (LQR) (required)")
	distanceFlag := flag.Float64("d", 0.0, "initial cart position / cascade position reference [m]")
	errFlag := flag.Float64("e", 0.349, "initial angle error [rad]")
	dbFlag := flag.String("db", "", "optional path to a run-metrics database")
	verboseFlag := flag.Bool("v", false, "record per-event metrics (requires -db)")
	configFlag := flag.String("config", "", "optional YAML file overriding default plant parameters and LQR gain")

	flag.Parse()

	stdlog := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	if *inputFlag == "" || *outputFlag == "" || (*simNumberFlag != 1 && *simNumberFlag != 2) {
		stdlog.Println("usage: simulate -i events.csv -o states.csv -n <1|2> [-d distance] [-e initial-error] [-config file.yaml]")
		os.Exit(1)
	}

	ncslogger := ncslog.Default()

	mass, cartMass, inertia, length := defaultMass, defaultCartMass, defaultInertia, defaultLength
	lqrGain := defaultLQRGain
	if *configFlag != "" {
		var cfg simConfig
		if err := config.LoadYAML(*configFlag, &cfg); err != nil {
			stdlog.Fatalf("failed to load config: %v", err)
		}
		if cfg.M != 0 {
			mass = cfg.M
		}
		if cfg.MCart != 0 {
			cartMass = cfg.MCart
		}
		if cfg.I != 0 {
			inertia = cfg.I
		}
		if cfg.L != 0 {
			length = cfg.L
		}
		if cfg.LQR.K != [4]float64{} {
			lqrGain = cfg.LQR.K
		}
	}

	params := pendulum.Params{M: mass, MCart: cartMass, I: inertia, L: length}
	state0 := pendulum.State{X: *distanceFlag, Phi: *errFlag}
	plant := pendulum.NewPlant(params, 0, state0)

	var ctrl sim.Controller
	var scenario string
	switch *simNumberFlag {
	case 1:
		scenario = "cascade-pid"
		pidX := control.NewPID(1.0, 0.0, 2.0)
		pidV := control.NewPID(2.0, 0.0, 0.5)
		pidPhi := control.NewPID(10.0, 1.0, 1.0)
		ref := func(t float64) float64 { return *distanceFlag }
		ctrl = sim.NewCascadeController(pidX, pidV, pidPhi, ref, sim.VClamp, sim.PhiClamp)
	case 2:
		scenario = "lqr"
		ctrl = sim.NewLQRController(control.NewLQR(lqrGain))
	}

	orch := sim.New(plant, ctrl, defaultDT, ncslogger)

	q, err := ncsevent.NewQueueFromTrace(*inputFlag, defaultDT)
	if err != nil {
		stdlog.Fatalf("failed to load event trace: %v", err)
	}
	orch.Attach(q)

	var runLogger *metrics.RunLogger
	if *dbFlag != "" {
		runLogger, err = metrics.NewRunLogger(*dbFlag, *verboseFlag, ncslogger)
		if err != nil {
			stdlog.Fatalf("failed to open metrics database: %v", err)
		}
		defer runLogger.Close()

		q.AddReceiver(func(e ncsevent.Event) {
			if err := runLogger.LogEvent(e.EventID, e.PktNr, e.Time, e.Type.String()); err != nil {
				ncslogger.Errorf("metrics: failed to record event: %v", err)
			}
		})
	}

	until := q.MaxTime()

	start := time.Now()
	q.Run(until)
	elapsed := time.Since(start)

	if err := tracefmt.WriteStateTrajectory(*outputFlag, orch.States()); err != nil {
		stdlog.Fatalf("failed to write state trajectory: %v", err)
	}

	if runLogger != nil {
		states := orch.States()
		var final pendulum.TimeState
		if len(states) > 0 {
			final = states[len(states)-1]
		}
		runLogger.LogRun(metrics.RunSummary{
			Scenario: scenario, Controller: scenario,
			Mass: params.M, CartMass: params.MCart, Inertia: params.I, Length: params.L,
			DT: defaultDT, UntilTime: until,
			FinalT: final.T, FinalX: final.State.X, FinalV: final.State.V,
			FinalPhi: final.State.Phi, FinalOmega: final.State.Omega,
			WallClockMs: elapsed.Milliseconds(),
		})
	}

	fmt.Printf("simulate: wrote %d states to %s\n", len(orch.States()), *outputFlag)
}
