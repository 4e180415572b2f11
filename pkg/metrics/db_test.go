package metrics

import (
	"path/filepath"
	"testing"
)

func TestRecordAndGetRunSummary(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "metrics.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	want := RunSummary{
		SessionID:  "test-session",
		Scenario:   "S3",
		Controller: "lqr",
		Mass:       0.2, CartMass: 0.5, Inertia: 0.006, Length: 0.3,
		DT: 0.001, UntilTime: 10.0,
		FinalT: 10.0, FinalX: 0.1, FinalV: 0.0, FinalPhi: 0.001, FinalOmega: 0.0,
		StaleReceiveCount:   1,
		OutOfOrderSendCount: 2,
		WallClockMs:         42,
	}
	if err := db.RecordRun(want); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	got, err := db.GetRunSummary("test-session")
	if err != nil {
		t.Fatalf("GetRunSummary: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0] != want {
		t.Errorf("got %+v want %+v", got[0], want)
	}
}

func TestRecordEvent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "metrics.db")
	db, err := NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	defer db.Close()

	if err := db.RecordEvent("test-session", 1, 1, 0.01, "SEND"); err != nil {
		t.Errorf("RecordEvent: %v", err)
	}
}
