package genex

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// CountRow is one species or derived metric at one sampling boundary. Count
// carries the copy number for plain species, the released protein tally for
// gene products, and the termination tally for *_total rows. Collisions is
// the count since the previous sampling boundary.
type CountRow struct {
	Time        float64 `json:"time"`
	Name        string  `json:"species"`
	Count       int     `json:"protein"`
	Transcript  int     `json:"transcript"`
	RiboDensity float64 `json:"ribo_density"`
	Collisions  int     `json:"collisions"`
}

// EncodeRowsJSON encodes a snapshot batch as JSON.
func EncodeRowsJSON(rows []CountRow) ([]byte, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rows: %w", err)
	}
	return data, nil
}

// DecodeRowsJSON decodes a snapshot batch from JSON.
func DecodeRowsJSON(data []byte) ([]CountRow, error) {
	var rows []CountRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return rows, nil
}

// Sink receives one snapshot batch per sampling boundary.
type Sink interface {
	Write(rows []CountRow) error
	Close() error
}

// TSVHeader is the column header of tab-separated count output.
const TSVHeader = "time\tspecies\tprotein\ttranscript\tribo_density\tcollisions\n"

// TSVSink writes snapshot rows as tab-separated values, one row per species
// per boundary, with a single header line.
type TSVSink struct {
	w           *bufio.Writer
	closer      io.Closer
	wroteHeader bool
}

// NewTSVSink writes TSV output to w. If w is also an io.Closer it is closed
// by Close.
func NewTSVSink(w io.Writer) *TSVSink {
	s := &TSVSink{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok && w != os.Stdout {
		s.closer = c
	}
	return s
}

// NewTSVFileSink creates (truncating) the named file and writes TSV output to
// it.
func NewTSVFileSink(path string) (*TSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create count output file: %w", err)
	}
	return NewTSVSink(f), nil
}

func (s *TSVSink) Write(rows []CountRow) error {
	if !s.wroteHeader {
		if _, err := s.w.WriteString(TSVHeader); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	for _, row := range rows {
		_, err := fmt.Fprintf(s.w, "%g\t%s\t%d\t%d\t%g\t%d\n",
			row.Time, row.Name, row.Count, row.Transcript, row.RiboDensity, row.Collisions)
		if err != nil {
			return err
		}
	}
	return s.w.Flush()
}

func (s *TSVSink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// MultiSink fans each snapshot batch out to several sinks.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks; nil entries are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

func (m *MultiSink) Write(rows []CountRow) error {
	for _, s := range m.sinks {
		if err := s.Write(rows); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
