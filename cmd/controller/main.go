// Command controller runs a live PID controller process, serving state
// packets from a plant over UDP and replying with an actuation force.
// Flags match spec §6's contract (`-p`, `-P/-I/-D`), grounded on
// original_source/src/apps/ncs-controller.cc and controller_pid.cc.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/ipvs-ncs/invpend-ncs/internal/ncslog"
	"github.com/ipvs-ncs/invpend-ncs/pkg/config"
	"github.com/ipvs-ncs/invpend-ncs/pkg/control"
	"github.com/ipvs-ncs/invpend-ncs/pkg/liverun"
	"github.com/ipvs-ncs/invpend-ncs/pkg/netutil"
	"github.com/ipvs-ncs/invpend-ncs/pkg/sim"
)

func main() {
	portFlag := flag.Int("p", 0, "port to listen on for plant state packets (required)")
	kpFlag := flag.Float64("P", 10.0, "PID proportional gain")
	kiFlag := flag.Float64("I", 1.0, "PID integral gain")
	kdFlag := flag.Float64("D", 1.0, "PID derivative gain")
	setpointFlag := flag.Float64("s", 0.0, "angle setpoint [rad]")
	configFlag := flag.String("config", "", "optional YAML file overriding default PID gains (explicit -P/-I/-D flags still win)")

	flag.Parse()

	stdlog := log.New(os.Stderr, "[controller] ", log.LstdFlags)

	if *portFlag == 0 {
		stdlog.Println("usage: controller -p port [-P kp] [-I ki] [-D kd] [-s setpoint] [-config file.yaml]")
		os.Exit(1)
	}

	conn, err := netutil.ListenUDP("", *portFlag)
	if err != nil {
		stdlog.Fatalf("failed to listen: %v", err)
	}
	defer conn.Close()

	kp, ki, kd := *kpFlag, *kiFlag, *kdFlag
	if *configFlag != "" {
		explicit := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

		var gains config.PIDGains
		if err := config.LoadYAML(*configFlag, &gains); err != nil {
			stdlog.Fatalf("failed to load config: %v", err)
		}
		if !explicit["P"] && gains.Kp != 0 {
			kp = gains.Kp
		}
		if !explicit["I"] && gains.Ki != 0 {
			ki = gains.Ki
		}
		if !explicit["D"] && gains.Kd != 0 {
			kd = gains.Kd
		}
	}

	pid := control.NewPID(kp, ki, kd)
	ctrl := sim.NewPIDAngleController(pid, *setpointFlag)

	logger := ncslog.Default()
	cycle := liverun.NewControllerCycle(conn, ctrl, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := cycle.Run(ctx); err != nil && ctx.Err() == nil {
		stdlog.Fatalf("controller cycle error: %v", err)
	}
}
