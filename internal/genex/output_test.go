package genex

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestTSVSinkWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	sink := NewTSVSink(&buf)

	rows := []CountRow{
		{Time: 0, Name: "A", Count: 100},
		{Time: 0, Name: "B", Count: 0},
	}
	if err := sink.Write(rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Write([]CountRow{{Time: 5, Name: "A", Count: 60}}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, TSVHeader) {
		t.Errorf("Output missing header, got %q", out)
	}
	if strings.Count(out, "time\tspecies") != 1 {
		t.Errorf("Expected exactly one header line, got %q", out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[1] != "0\tA\t100\t0\t0\t0" {
		t.Errorf("Unexpected first row: %q", lines[1])
	}
	if lines[3] != "5\tA\t60\t0\t0\t0" {
		t.Errorf("Unexpected last row: %q", lines[3])
	}
}

func TestRowsJSONRoundTrip(t *testing.T) {
	rows := []CountRow{
		{Time: 2.5, Name: "proteinX", Count: 3, Transcript: 2, RiboDensity: 1.5, Collisions: 4},
	}
	data, err := EncodeRowsJSON(rows)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.Contains(string(data), `"ribo_density":1.5`) {
		t.Errorf("Unexpected JSON shape: %s", data)
	}

	decoded, err := DecodeRowsJSON(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(decoded) != 1 || decoded[0] != rows[0] {
		t.Errorf("Round trip mismatch: %+v", decoded)
	}
}

type failingSink struct {
	err error
}

func (s *failingSink) Write([]CountRow) error { return s.err }
func (s *failingSink) Close() error { return s.err }

func TestMultiSinkFansOut(t *testing.T) {
	first := &memorySink{}
	second := &memorySink{}
	multi := NewMultiSink(first, nil, second)

	rows := []CountRow{{Time: 1, Name: "A", Count: 7}}
	if err := multi.Write(rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if len(first.batches) != 1 || len(second.batches) != 1 {
		t.Errorf("Expected both sinks to receive the batch, got %d and %d",
			len(first.batches), len(second.batches))
	}

	if err := multi.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !first.closed || !second.closed {
		t.Error("Expected both sinks closed")
	}
}

func TestMultiSinkPropagatesErrors(t *testing.T) {
	wantErr := errors.New("disk full")
	healthy := &memorySink{}
	multi := NewMultiSink(&failingSink{err: wantErr}, healthy)

	if err := multi.Write([]CountRow{{Name: "A"}}); !errors.Is(err, wantErr) {
		t.Errorf("Expected write error propagated, got %v", err)
	}
	if err := multi.Close(); !errors.Is(err, wantErr) {
		t.Errorf("Expected close error propagated, got %v", err)
	}
	if !healthy.closed {
		t.Error("Expected remaining sinks still closed on error")
	}
}
