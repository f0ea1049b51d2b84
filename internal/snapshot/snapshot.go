// Package snapshot encodes simulation snapshots as delimited text: one
// particle per line as "material,x,y,temperature", all non-negative
// integers.
package snapshot

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"tinderbox/internal/material"
	"tinderbox/internal/sim"
)

// ErrCorrupt is returned for any line that is not four comma separated
// non-negative integers naming a known material.
var ErrCorrupt = errors.New("corrupt snapshot")

const fieldCount = 4

// Encode writes records, one per line.
func Encode(w io.Writer, records []sim.Record) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for _, r := range records {
		buf = buf[:0]
		buf = strconv.AppendInt(buf, int64(r.Material), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(r.X), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(r.Y), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(max(r.Temperature, 0)), 10)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Decode parses a whole snapshot. Nothing is returned unless every line
// parses; blank lines are ignored.
func Decode(r io.Reader) ([]sim.Record, error) {
	var out []sim.Record
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSuffix(sc.Bytes(), []byte{'\r'})
		if len(text) == 0 {
			continue
		}
		rec, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return out, nil
}

func parseLine(text []byte) (sim.Record, error) {
	var fields [fieldCount]int
	n := 0
	cur, digits := 0, 0
	for _, c := range text {
		switch {
		case c >= '0' && c <= '9':
			if cur > (1<<31)/10 {
				return sim.Record{}, fmt.Errorf("%w: value too large", ErrCorrupt)
			}
			cur = cur*10 + int(c-'0')
			digits++
		case c == ',':
			if digits == 0 || n == fieldCount-1 {
				return sim.Record{}, fmt.Errorf("%w: want %d fields", ErrCorrupt, fieldCount)
			}
			fields[n] = cur
			n++
			cur, digits = 0, 0
		default:
			return sim.Record{}, fmt.Errorf("%w: unexpected character %q", ErrCorrupt, c)
		}
	}
	if digits == 0 || n != fieldCount-1 {
		return sim.Record{}, fmt.Errorf("%w: want %d fields", ErrCorrupt, fieldCount)
	}
	fields[n] = cur

	t := material.Type(fields[0])
	if fields[0] >= int(material.Count) || !t.Valid() {
		return sim.Record{}, fmt.Errorf("%w: unknown material %d", ErrCorrupt, fields[0])
	}
	return sim.Record{Material: t, X: fields[1], Y: fields[2], Temperature: fields[3]}, nil
}

// Save writes the snapshot to path, replacing any existing file.
func Save(path string, records []sim.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save snapshot %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	if err := Encode(f, records); err != nil {
		f.Close()
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads and fully parses the snapshot at path.
func Load(path string) ([]sim.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	defer f.Close()
	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return records, nil
}

// Restore loads path into s. On any error s is left untouched.
func Restore(s *sim.Simulation, path string) (int, error) {
	records, err := Load(path)
	if err != nil {
		return 0, err
	}
	return s.ApplySnapshot(records), nil
}
