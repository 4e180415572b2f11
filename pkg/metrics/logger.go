package metrics

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/ipvs-ncs/invpend-ncs/internal/ncslog"
)

// RunLogger records per-run and, in verbose mode, per-event metrics to a
// SQLite database, with throttled console echoes of event activity.
type RunLogger struct {
	db        *DB
	sessionID string
	verbose   bool
	log       *ncslog.Logger

	mu             sync.Mutex
	eventCount     int
	lastConsoleLog time.Time
	minLogInterval time.Duration
}

// NewRunLogger opens (creating if necessary) the metrics database at dbPath
// and assigns a fresh session ID for the run about to start. verbose
// enables per-event persistence via LogEvent; without it, only the final
// RunSummary is recorded.
func NewRunLogger(dbPath string, verbose bool, log *ncslog.Logger) (*RunLogger, error) {
	if dbPath == "" {
		dbPath = filepath.Join("data", "metrics.db")
	}
	if log == nil {
		log = ncslog.Default()
	}

	db, err := NewDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics database: %w", err)
	}

	return &RunLogger{
		db:             db,
		sessionID:      GenerateSessionID(),
		verbose:        verbose,
		log:            log,
		minLogInterval: 2 * time.Second,
	}, nil
}

// Close closes the underlying database connection.
func (l *RunLogger) Close() error {
	return l.db.Close()
}

// SessionID returns the session ID assigned to this run.
func (l *RunLogger) SessionID() string { return l.sessionID }

// LogEvent persists one queue event when verbose mode is enabled, and
// logs activity at Debug level at most once every minLogInterval.
func (l *RunLogger) LogEvent(eventID, pktNr uint64, t float64, eventType string) error {
	if !l.verbose {
		return nil
	}
	if err := l.db.RecordEvent(l.sessionID, eventID, pktNr, t, eventType); err != nil {
		return err
	}

	l.mu.Lock()
	l.eventCount++
	now := time.Now()
	shouldLog := now.Sub(l.lastConsoleLog) >= l.minLogInterval
	if shouldLog {
		l.lastConsoleLog = now
	}
	count := l.eventCount
	l.mu.Unlock()

	if shouldLog {
		l.log.Debugf("metrics: %d events recorded for session %s (latest: %s pkt=%d t=%f)",
			count, l.sessionID, eventType, pktNr, t)
	}
	return nil
}

// LogRun persists the final RunSummary for this run and logs a one-line
// console summary.
func (l *RunLogger) LogRun(s RunSummary) error {
	s.SessionID = l.sessionID
	if err := l.db.RecordRun(s); err != nil {
		return err
	}
	l.log.Infof("run %s (%s/%s): final t=%.3f phi=%.4f stale=%d out-of-order=%d wall=%dms",
		l.sessionID, s.Scenario, s.Controller, s.FinalT, s.FinalPhi,
		s.StaleReceiveCount, s.OutOfOrderSendCount, s.WallClockMs)
	return nil
}

// Summary returns the persisted RunSummary rows for this session.
func (l *RunLogger) Summary() ([]RunSummary, error) {
	return l.db.GetRunSummary(l.sessionID)
}
