// Package perf records simulation telemetry as delimited text rows and reads
// them back for summaries and charts.
package perf

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"tinderbox/internal/sim"
)

// ErrCorrupt is returned for rows that do not have six numeric fields.
var ErrCorrupt = errors.New("corrupt perf report")

// Columns names the row fields in file order.
var Columns = [...]string{"fps", "frame_ms", "particles", "active", "cell_visits", "chunk_visits"}

// Row is one telemetry sample.
type Row struct {
	FPS         float64
	FrameTimeMs float64
	Particles   int
	Active      int
	CellVisits  int
	ChunkVisits int
}

// RowFromStats converts simulation counters into a report row.
func RowFromStats(st sim.Stats) Row {
	return Row{
		FPS:         st.FPS,
		FrameTimeMs: float64(st.FrameTime.Microseconds()) / 1000,
		Particles:   st.Particles,
		Active:      st.Active,
		CellVisits:  st.PixelVisits(),
		ChunkVisits: st.ChunkVisits,
	}
}

// Values returns the row as floats in Columns order.
func (r Row) Values() [len(Columns)]float64 {
	return [len(Columns)]float64{
		r.FPS, r.FrameTimeMs,
		float64(r.Particles), float64(r.Active), float64(r.CellVisits), float64(r.ChunkVisits),
	}
}

func (r Row) fields() []string {
	return []string{
		strconv.FormatFloat(r.FPS, 'f', 2, 64),
		strconv.FormatFloat(r.FrameTimeMs, 'f', 3, 64),
		strconv.Itoa(r.Particles),
		strconv.Itoa(r.Active),
		strconv.Itoa(r.CellVisits),
		strconv.Itoa(r.ChunkVisits),
	}
}

// Reporter samples stats every N ticks and appends rows to a writer.
type Reporter struct {
	w     *csv.Writer
	c     io.Closer
	every uint64
	rows  int
}

// NewReporter writes to w. sampleEvery below one samples every tick.
func NewReporter(w io.Writer, sampleEvery int) *Reporter {
	return &Reporter{w: csv.NewWriter(w), every: uint64(max(sampleEvery, 1))}
}

// OpenReporter appends to the report file at path, creating it if needed.
func OpenReporter(path string, sampleEvery int) (*Reporter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("open perf report %s: %w", path, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open perf report %s: %w", path, err)
	}
	r := NewReporter(f, sampleEvery)
	r.c = f
	return r, nil
}

// Observe records st if its tick falls on the sampling interval. It reports
// whether a row was written.
func (r *Reporter) Observe(st sim.Stats) (bool, error) {
	if st.Ticks == 0 || st.Ticks%r.every != 0 {
		return false, nil
	}
	if err := r.Write(RowFromStats(st)); err != nil {
		return false, err
	}
	return true, nil
}

// Write appends one row unconditionally.
func (r *Reporter) Write(row Row) error {
	if err := r.w.Write(row.fields()); err != nil {
		return fmt.Errorf("write perf row: %w", err)
	}
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		return fmt.Errorf("write perf row: %w", err)
	}
	r.rows++
	return nil
}

// Rows is the number of rows written so far.
func (r *Reporter) Rows() int { return r.rows }

// Close flushes and closes the underlying file, if any.
func (r *Reporter) Close() error {
	r.w.Flush()
	err := r.w.Error()
	if r.c != nil {
		if cerr := r.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Read parses a report. Rows with a non-positive fps are dropped, they are
// written before the frame clock has settled.
func Read(rd io.Reader) ([]Row, error) {
	cr := csv.NewReader(bufio.NewReader(rd))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	var rows []Row
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", line, ErrCorrupt, err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if row.FPS <= 0 {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile reads the report at path.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read perf report %s: %w", path, err)
	}
	defer f.Close()
	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read perf report %s: %w", path, err)
	}
	return rows, nil
}

func parseRow(rec []string) (Row, error) {
	if len(rec) != len(Columns) {
		return Row{}, fmt.Errorf("%w: %d fields, want %d", ErrCorrupt, len(rec), len(Columns))
	}
	var floats [2]float64
	for i := range floats {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return Row{}, fmt.Errorf("%w: %s %q", ErrCorrupt, Columns[i], rec[i])
		}
		floats[i] = v
	}
	var ints [4]int
	for i := range ints {
		v, err := strconv.Atoi(rec[i+2])
		if err != nil {
			return Row{}, fmt.Errorf("%w: %s %q", ErrCorrupt, Columns[i+2], rec[i+2])
		}
		ints[i] = v
	}
	return Row{
		FPS: floats[0], FrameTimeMs: floats[1],
		Particles: ints[0], Active: ints[1], CellVisits: ints[2], ChunkVisits: ints[3],
	}, nil
}
