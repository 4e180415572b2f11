// Command plant runs a live cart-pendulum plant process, sending its
// sampled state to a controller over UDP every cycle and applying whatever
// actuation force it last received. Flags match spec §6's contract
// (`-d/-p/-c/-f`), grounded on original_source/src/apps/ncs-plant.cc with
// its SFML rendering loop (a non-goal) dropped.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/ipvs-ncs/invpend-ncs/internal/ncslog"
	"github.com/ipvs-ncs/invpend-ncs/pkg/config"
	"github.com/ipvs-ncs/invpend-ncs/pkg/liverun"
	"github.com/ipvs-ncs/invpend-ncs/pkg/netutil"
	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
)

const (
	defaultMass     = 0.2
	defaultCartMass = 0.5
	defaultInertia  = 0.006
	defaultLength   = 0.3
	defaultDT       = 0.001
)

func main() {
	hostFlag := flag.String("d", "", "destination host of the controller (required)")
	portFlag := flag.Int("p", 0, "destination port of the controller (required)")
	cycleFlag := flag.Uint64("c", 0, "cycle time in microseconds for sending state datagrams (required)")
	logFlag := flag.String("f", "", "optional log file path (t_us,x,angle_deg)")
	configFlag := flag.String("config", "", "optional YAML file overriding default plant parameters")

	flag.Parse()

	stdlog := log.New(os.Stderr, "[plant] ", log.LstdFlags)

	if *hostFlag == "" || *portFlag == 0 || *cycleFlag == 0 {
		stdlog.Println("usage: plant -d host -p port -c cycletime_usec [-f logfile] [-config file.yaml]")
		os.Exit(1)
	}

	conn, err := netutil.DialUDP(*hostFlag, *portFlag)
	if err != nil {
		stdlog.Fatalf("failed to dial controller: %v", err)
	}
	defer conn.Close()

	mass, cartMass, inertia, length := defaultMass, defaultCartMass, defaultInertia, defaultLength
	if *configFlag != "" {
		var cfg config.PendulumParams
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
	}

	params := pendulum.Params{M: mass, MCart: cartMass, I: inertia, L: length}
	state0 := pendulum.State{}
	plant := pendulum.NewPlant(params, 0, state0)

	logger := ncslog.Default()
	cycle, err := liverun.NewPlantCycle(plant, conn, *cycleFlag, defaultDT, *logFlag, logger)
	if err != nil {
		stdlog.Fatalf("failed to start plant cycle: %v", err)
	}
	defer cycle.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cycle.Run(ctx); err != nil && ctx.Err() == nil {
		stdlog.Fatalf("plant cycle error: %v", err)
	}
}
