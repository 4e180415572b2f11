// Command debug inspects the run-metrics database written by cmd/simulate
// (its -db flag), printing or dumping as JSON the persisted
// RunSummary rows for a session. Adapted from the teacher's analysis CLI,
// trimmed to the run-level schema package metrics now records.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ipvs-ncs/invpend-ncs/pkg/metrics"
)

func main() {
	dbPathFlag := flag.String("db", "data/metrics.db", "Path to metrics database")
	sessionIDFlag := flag.String("session", "", "Session ID to inspect (default: latest session)")
	outputFlag := flag.String("output", "console", "Output format (console, json)")

	flag.Parse()

	logger := log.New(os.Stdout, "[debug] ", log.LstdFlags)

	db, err := metrics.NewDB(*dbPathFlag)
	if err != nil {
		logger.Fatalf("failed to connect to metrics database: %v", err)
	}
	defer db.Close()

	sessionID := *sessionIDFlag
	if sessionID == "" {
		sessions, err := db.ListSessions()
		if err != nil {
			logger.Fatalf("failed to list sessions: %v", err)
		}
		if len(sessions) == 0 {
			logger.Fatalf("no runs found in database")
		}
		sessionID = sessions[len(sessions)-1]
		logger.Printf("using latest session: %s", sessionID)
	}

	runs, err := db.GetRunSummary(sessionID)
	if err != nil {
		logger.Fatalf("failed to load run summary: %v", err)
	}

	switch *outputFlag {
	case "console":
		printRuns(runs)
	case "json":
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			logger.Fatalf("failed to marshal runs: %v", err)
		}
		fmt.Println(string(data))
	default:
		logger.Fatalf("unknown output format: %s", *outputFlag)
	}
}

func printRuns(runs []metrics.RunSummary) {
	if len(runs) == 0 {
		fmt.Println("no runs recorded for this session")
		return
	}
	for _, r := range runs {
		fmt.Printf("=== %s / %s ===\n", r.Scenario, r.Controller)
		fmt.Printf("params: m=%.4f M=%.4f I=%.4f l=%.4f\n", r.Mass, r.CartMass, r.Inertia, r.Length)
		fmt.Printf("dt=%.6f until=%.4f final_t=%.4f\n", r.DT, r.UntilTime, r.FinalT)
		fmt.Printf("final state: x=%.4f v=%.4f phi=%.4f omega=%.4f\n", r.FinalX, r.FinalV, r.FinalPhi, r.FinalOmega)
		fmt.Printf("stale receives: %d  out-of-order sends: %d  wall clock: %dms\n\n",
			r.StaleReceiveCount, r.OutOfOrderSendCount, r.WallClockMs)
	}
}
