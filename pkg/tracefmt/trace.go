// Package tracefmt reads and writes the two CSV formats the NCS tooling
// exchanges with the outside world: the event-trace input consumed by the
// discrete-event simulator, and the state-trajectory output it produces.
package tracefmt

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ipvs-ncs/invpend-ncs/pkg/pendulum"
)

// TraceRow is one row of the event-trace CSV: a packet number together
// with the wall-clock times (in seconds) at which it was sent and
// received.
type TraceRow struct {
	PktNr       uint64
	SendTime    float64
	ReceiveTime float64
}

// ReadTrace reads an event-trace CSV (header + rows "pktNr,receiveTime,
// sendTime"). Rows with any empty field are skipped, matching the original
// loader's behavior.
func ReadTrace(path string) ([]TraceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace csv %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil { // skip header
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read trace csv header: %w", err)
	}

	var rows []TraceRow
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trace csv row: %w", err)
		}
		if len(rec) < 3 || rec[0] == "" || rec[1] == "" || rec[2] == "" {
			continue
		}

		pktNr, err := strconv.ParseUint(rec[0], 10, 64)
		if err != nil {
			continue
		}
		recvTime, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		sendTime, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}

		rows = append(rows, TraceRow{PktNr: pktNr, SendTime: sendTime, ReceiveTime: recvTime})
	}

	return rows, nil
}

// WriteStateTrajectory writes a StateSequence as the canonical
// "t,x,v,phi,omega" CSV, angle in radians.
func WriteStateTrajectory(path string, states pendulum.StateSequence) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create state trajectory csv %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"t", "x", "v", "phi", "omega"}); err != nil {
		return fmt.Errorf("write state trajectory header: %w", err)
	}

	for _, ts := range states {
		row := []string{
			strconv.FormatFloat(ts.T, 'g', -1, 64),
			strconv.FormatFloat(ts.State.X, 'g', -1, 64),
			strconv.FormatFloat(ts.State.V, 'g', -1, 64),
			strconv.FormatFloat(ts.State.Phi, 'g', -1, 64),
			strconv.FormatFloat(ts.State.Omega, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write state trajectory row: %w", err)
		}
	}

	return w.Error()
}

// ReadStateTrajectory reads back a "t,x,v,phi,omega" CSV, for use by
// cmd/visualize and tests.
func ReadStateTrajectory(path string) (pendulum.StateSequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open state trajectory csv %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("read state trajectory header: %w", err)
	}

	var out pendulum.StateSequence
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read state trajectory row: %w", err)
		}
		if len(rec) < 5 {
			continue
		}
		t, _ := strconv.ParseFloat(rec[0], 64)
		x, _ := strconv.ParseFloat(rec[1], 64)
		v, _ := strconv.ParseFloat(rec[2], 64)
		phi, _ := strconv.ParseFloat(rec[3], 64)
		omega, _ := strconv.ParseFloat(rec[4], 64)
		out = append(out, pendulum.TimeState{T: t, State: pendulum.State{X: x, V: v, Phi: phi, Omega: omega}})
	}

	return out, nil
}
