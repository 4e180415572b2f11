// Command visualize loads one or two state-trajectory CSVs and prints a
// summary of each: final state, min/max angle, and sign-change count.
// Flags keep the CLI contract from spec §6 (`-f`/`-F`), but per the GUI
// non-goal this is a summarizer, not a renderer — an external collaborator
// consuming the same CSV is expected to do the actual plotting.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
	"github.com/ipvs-ncs/invpend-ncs/pkg/tracefmt"
)

func main() {
	fFlag := flag.String("f", "", "path to a state-trajectory CSV (required)")
	capFFlag := flag.String("F", "", "optional second state-trajectory CSV, for a dual view")
	degreesFlag := flag.Bool("deg", false, "print angles in degrees instead of radians")

	flag.Parse()

	stdlog := log.New(os.Stderr, "[visualize] ", log.LstdFlags)

	if *fFlag == "" {
		stdlog.Println("usage: visualize -f states.csv [-F states2.csv] [-deg]")
		os.Exit(1)
	}

	states, err := tracefmt.ReadStateTrajectory(*fFlag)
	if err != nil {
		stdlog.Fatalf("failed to read %s: %v", *fFlag, err)
	}
	printSummary(*fFlag, states, *degreesFlag)

	if *capFFlag != "" {
		states2, err := tracefmt.ReadStateTrajectory(*capFFlag)
		if err != nil {
			stdlog.Fatalf("failed to read %s: %v", *capFFlag, err)
		}
		printSummary(*capFFlag, states2, *degreesFlag)
	}
}

// summary holds the aggregate figures reported for one trajectory.
type summary struct {
	rows           int
	final          pendulum.TimeState
	minPhi, maxPhi float64
	signChanges    int
}

func summarize(states pendulum.StateSequence) summary {
	var s summary
	s.rows = len(states)
	if s.rows == 0 {
		return s
	}

	s.minPhi = states[0].State.Phi
	s.maxPhi = states[0].State.Phi
	prevSign := sign(states[0].State.Phi)

	for _, ts := range states {
		if ts.State.Phi < s.minPhi {
			s.minPhi = ts.State.Phi
		}
		if ts.State.Phi > s.maxPhi {
			s.maxPhi = ts.State.Phi
		}
		if sg := sign(ts.State.Phi); sg != 0 && sg != prevSign && prevSign != 0 {
			s.signChanges++
		}
		if sg := sign(ts.State.Phi); sg != 0 {
			prevSign = sg
		}
	}

	s.final = states[len(states)-1]
	return s
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func printSummary(path string, states pendulum.StateSequence, degrees bool) {
	s := summarize(states)

	unit := "rad"
	minPhi, maxPhi, finalPhi := s.minPhi, s.maxPhi, s.final.State.Phi
	if degrees {
		unit = "deg"
		minPhi *= 180 / math.Pi
		maxPhi *= 180 / math.Pi
		finalPhi *= 180 / math.Pi
	}

	fmt.Printf("%s: %d rows\n", path, s.rows)
	if s.rows == 0 {
		return
	}
	fmt.Printf("  final  t=%.6f x=%.6f v=%.6f phi=%.6f%s omega=%.6f\n",
		s.final.T, s.final.State.X, s.final.State.V, finalPhi, unit, s.final.State.Omega)
	fmt.Printf("  phi range [%.6f, %.6f] %s, sign changes: %d\n", minPhi, maxPhi, unit, s.signChanges)
}
