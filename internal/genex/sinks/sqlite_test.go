package sinks

import (
	"path/filepath"
	"testing"

	"github.com/biocircuit/genesim/internal/genex"
)

func TestSQLiteSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	sink, err := NewSQLiteSink(path, "decay-run")
	if err != nil {
		t.Fatalf("NewSQLiteSink failed: %v", err)
	}
	defer sink.Close()

	if sink.RunID() == "" {
		t.Error("Expected a non-empty run ID")
	}

	first := []genex.CountRow{
		{Time: 0, Name: "A", Count: 100},
		{Time: 0, Name: "B", Count: 0},
	}
	second := []genex.CountRow{
		{Time: 5, Name: "A", Count: 60, Collisions: 2},
		{Time: 5, Name: "B", Count: 40},
	}
	if err := sink.Write(first); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Write(second); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := sink.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("Expected 4 stored rows, got %d", len(rows))
	}
	// Ordered by time then species.
	want := append(first, second...)
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("Row %d mismatch: got %+v, want %+v", i, rows[i], want[i])
		}
	}
}

func TestSQLiteSinkIsolatesRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	first, err := NewSQLiteSink(path, "replicate-0")
	if err != nil {
		t.Fatalf("NewSQLiteSink failed: %v", err)
	}
	if err := first.Write([]genex.CountRow{{Time: 0, Name: "A", Count: 10}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := NewSQLiteSink(path, "replicate-1")
	if err != nil {
		t.Fatalf("NewSQLiteSink failed: %v", err)
	}
	defer second.Close()
	if err := second.Write([]genex.CountRow{{Time: 0, Name: "A", Count: 99}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	rows, err := second.Rows()
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Count != 99 {
		t.Errorf("Expected only the second run's row, got %+v", rows)
	}
}

func TestSQLiteSinkRequiresPath(t *testing.T) {
	if _, err := NewSQLiteSink("", "run"); err == nil {
		t.Error("Expected error for empty path")
	}
}
