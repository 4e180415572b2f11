package ncsevent

import "container/heap"

// Queue owns the time-ordered event heap, the monotonically increasing
// next-event-id counter, the default step size for periodic UPDATE ticks,
// and the list of subscriber callbacks. It is single-threaded: Run performs
// no suspension points inside actor callbacks.
type Queue struct {
	heap        eventHeap
	nextEventID uint64
	step        float64
	receivers   []Receiver
	maxTime     float64
}

// NewQueue returns an empty Queue with the given default UPDATE step size.
func NewQueue(step float64) *Queue {
	return &Queue{step: step}
}

// AddReceiver registers a subscriber callback, invoked for every event
// popped from the queue (after the event's own action has run), in the
// order receivers were added.
func (q *Queue) AddReceiver(r Receiver) {
	q.receivers = append(q.receivers, r)
}

// ScheduleSend schedules a SEND event for pktNr at the given time.
func (q *Queue) ScheduleSend(pktNr uint64, t float64) {
	q.schedule(pktNr, t, Send, nil)
}

// ScheduleReceive schedules a RECEIVE event for pktNr at the given time.
func (q *Queue) ScheduleReceive(pktNr uint64, t float64) {
	q.schedule(pktNr, t, Receive, nil)
}

// scheduleFirstUpdate seeds the infinite (but bounded by untilTime) stream
// of UPDATE ticks, spaced by the queue's default step.
func (q *Queue) scheduleFirstUpdate(untilTime float64) {
	var reschedule func(e *Event)
	reschedule = func(e *Event) {
		next := e.Time + q.step
		if next <= untilTime {
			q.schedule(0, next, Update, reschedule)
		}
	}
	q.schedule(0, 0, Update, reschedule)
}

func (q *Queue) schedule(pktNr uint64, t float64, typ Type, action func(*Event)) {
	e := &Event{
		EventID: q.nextEventID,
		PktNr:   pktNr,
		Time:    t,
		Type:    typ,
		action:  action,
	}
	q.nextEventID++
	heap.Push(&q.heap, e)
	if typ != Update && t > q.maxTime {
		q.maxTime = t
	}
}

// MaxTime returns the latest SEND/RECEIVE time scheduled so far (UPDATE
// ticks, which are seeded lazily by Run, don't count). Callers building a
// queue from a trace use this to pick an untilTime covering the whole
// trace before calling Run.
func (q *Queue) MaxTime() float64 { return q.maxTime }

// Empty reports whether the queue has no pending events.
func (q *Queue) Empty() bool { return q.heap.Len() == 0 }

// NextTime returns the time of the next pending event. Panics if the queue
// is empty.
func (q *Queue) NextTime() float64 { return q.heap[0].Time }

// Run pops events while the heap is non-empty and the next event's time is
// <= untilTime. It first seeds the periodic UPDATE stream. For each popped
// event: the event's own action closure runs (if any — SEND/RECEIVE events
// loaded from a trace carry no action), then every registered receiver is
// invoked, in registration order.
func (q *Queue) Run(untilTime float64) {
	q.scheduleFirstUpdate(untilTime)

	for q.heap.Len() > 0 && q.heap[0].Time <= untilTime {
		e := heap.Pop(&q.heap).(*Event)
		if e.action != nil {
			e.action(e)
		}
		for _, r := range q.receivers {
			r(*e)
		}
	}
}

// eventHeap implements container/heap.Interface, ordering by (Time asc,
// EventID asc) for stable tie-breaking among equal-time events.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].EventID < h[j].EventID
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x interface{}) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
