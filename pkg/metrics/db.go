package metrics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DB manages the SQLite connection for run-metrics persistence.
type DB struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// NewDB opens (creating if necessary) the SQLite database at dbPath and
// ensures its schema exists.
func NewDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	metricsDB := &DB{db: db, dbPath: dbPath}

	if err := metricsDB.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return metricsDB, nil
}

// Close closes the database connection.
func (m *DB) Close() error {
	return m.db.Close()
}

func (m *DB) initSchema() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
			session_id TEXT,
			scenario TEXT,
			controller TEXT,
			mass REAL,
			cart_mass REAL,
			inertia REAL,
			length REAL,
			dt REAL,
			until_time REAL,
			final_t REAL,
			final_x REAL,
			final_v REAL,
			final_phi REAL,
			final_omega REAL,
			stale_receive_count INTEGER,
			out_of_order_send_count INTEGER,
			wall_clock_ms INTEGER
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}

	_, err = m.db.Exec(`
		CREATE TABLE IF NOT EXISTS run_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT,
			event_id INTEGER,
			pkt_nr INTEGER,
			time REAL,
			event_type TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create run_events table: %w", err)
	}

	_, err = m.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session_id);
		CREATE INDEX IF NOT EXISTS idx_run_events_session ON run_events(session_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create indices: %w", err)
	}

	return nil
}

// RunSummary is the per-run record written by RecordRun.
type RunSummary struct {
	SessionID            string
	Scenario             string
	Controller           string
	Mass, CartMass       float64
	Inertia, Length      float64
	DT, UntilTime        float64
	FinalT               float64
	FinalX, FinalV       float64
	FinalPhi, FinalOmega float64
	StaleReceiveCount    int
	OutOfOrderSendCount  int
	WallClockMs          int64
}

// RecordRun persists the outcome of one simulation or live run.
func (m *DB) RecordRun(s RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.Exec(`
		INSERT INTO runs (
			session_id, scenario, controller, mass, cart_mass, inertia, length,
			dt, until_time, final_t, final_x, final_v, final_phi, final_omega,
			stale_receive_count, out_of_order_send_count, wall_clock_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.SessionID, s.Scenario, s.Controller, s.Mass, s.CartMass, s.Inertia, s.Length,
		s.DT, s.UntilTime, s.FinalT, s.FinalX, s.FinalV, s.FinalPhi, s.FinalOmega,
		s.StaleReceiveCount, s.OutOfOrderSendCount, s.WallClockMs)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecordEvent persists a single queue event, for verbose per-event
// logging of a run.
func (m *DB) RecordEvent(sessionID string, eventID, pktNr uint64, t float64, eventType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.db.Exec(`
		INSERT INTO run_events (session_id, event_id, pkt_nr, time, event_type)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, eventID, pktNr, t, eventType)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// GetRunSummary returns the persisted RunSummary rows for a session,
// ordered by insertion (there is normally exactly one per session, but a
// session may span multiple scenario sub-runs).
func (m *DB) GetRunSummary(sessionID string) ([]RunSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.db.Query(`
		SELECT session_id, scenario, controller, mass, cart_mass, inertia, length,
			dt, until_time, final_t, final_x, final_v, final_phi, final_omega,
			stale_receive_count, out_of_order_send_count, wall_clock_ms
		FROM runs WHERE session_id = ? ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.SessionID, &s.Scenario, &s.Controller, &s.Mass, &s.CartMass, &s.Inertia, &s.Length,
			&s.DT, &s.UntilTime, &s.FinalT, &s.FinalX, &s.FinalV, &s.FinalPhi, &s.FinalOmega,
			&s.StaleReceiveCount, &s.OutOfOrderSendCount, &s.WallClockMs); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// ListSessions returns every distinct session ID recorded, in insertion
// order.
func (m *DB) ListSessions() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows, err := m.db.Query(`SELECT DISTINCT session_id FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

// GenerateSessionID creates a unique session ID based on the current time.
func GenerateSessionID() string {
	return fmt.Sprintf("session_%s", time.Now().Format("20060102_150405"))
}
