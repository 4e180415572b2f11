package ncsevent

import (
	"fmt"

	"github.com/ipvs-ncs/invpend-ncs/pkg/tracefmt"
)

// NewQueueFromTrace builds a Queue with default UPDATE step size step,
// loading SEND/RECEIVE events from the event-trace CSV at path. Each row
// emits one SEND at SendTime and one RECEIVE at ReceiveTime, both carrying
// PktNr; rows with empty fields were already dropped by tracefmt.ReadTrace.
func NewQueueFromTrace(path string, step float64) (*Queue, error) {
	rows, err := tracefmt.ReadTrace(path)
	if err != nil {
		return nil, fmt.Errorf("load event trace: %w", err)
	}

	q := NewQueue(step)
	for _, row := range rows {
		q.ScheduleSend(row.PktNr, row.SendTime)
		q.ScheduleReceive(row.PktNr, row.ReceiveTime)
	}
	return q, nil
}
