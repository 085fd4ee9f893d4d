package refset

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/colour"
)

// Separator is the field separator of reference set rows.
const Separator = ";"

// MaxRowBytes is the longest row parsed; longer rows are skipped.
const MaxRowBytes = 64 * 1024

//go:embed colourset.csv
var builtin []byte

// Stats reports what happened while loading a reference set.
type Stats struct {
	Rows       int
	Loaded     int
	Skipped    int
	Duplicates int
}

// Load parses a reference set from r.
//
// The first line is a header and is skipped. Malformed rows are logged and
// skipped. A name that appears twice keeps the colour of its last row.
// Returns colour.ErrEmptyReferenceSet when no usable row remains.
func Load(r io.Reader, layout Layout, logger hclog.Logger) (colour.ReferenceSet, error) {
	set, _, err := LoadWithStats(r, layout, logger)
	return set, err
}

// LoadWithStats is Load, also returning row counts.
func LoadWithStats(r io.Reader, layout Layout, logger hclog.Logger) (colour.ReferenceSet, Stats, error) {
	var (
		set   colour.ReferenceSet
		stats Stats
	)

	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if err := layout.Validate(); err != nil {
		return set, stats, fmt.Errorf("invalid layout: %w", err)
	}

	br := bufio.NewReader(r)
	line := 0
	for {
		text, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return colour.ReferenceSet{}, stats, fmt.Errorf("failed to read reference set: %w", readErr)
		}
		if readErr == io.EOF && text == "" {
			break
		}
		line++
		if line > 1 {
			addRow(&set, &stats, strings.TrimRight(text, "\r\n"), line, layout, logger)
		}
		if readErr == io.EOF {
			break
		}
	}

	stats.Loaded = set.Len()
	if set.Len() == 0 {
		return set, stats, colour.ErrEmptyReferenceSet
	}

	logger.Debug("reference set loaded", "entries", stats.Loaded, "skipped", stats.Skipped, "duplicates", stats.Duplicates)
	return set, stats, nil
}

// addRow parses one data row into set, updating stats.
func addRow(set *colour.ReferenceSet, stats *Stats, text string, line int, layout Layout, logger hclog.Logger) {
	if strings.TrimSpace(text) == "" {
		return
	}
	stats.Rows++

	if len(text) > MaxRowBytes {
		stats.Skipped++
		logger.Warn("skipping overlong reference row", "line", line, "bytes", len(text))
		return
	}

	ref, err := parseRow(text, layout)
	if err != nil {
		stats.Skipped++
		logger.Warn("skipping malformed reference row", "line", line, "error", err)
		return
	}

	if set.Add(ref) {
		stats.Duplicates++
		logger.Debug("duplicate reference name, keeping last", "line", line, "name", ref.Name)
	}
}

// parseRow extracts one reference colour from a row.
func parseRow(text string, layout Layout) (colour.Reference, error) {
	fields := strings.Split(text, Separator)
	if len(fields) < layout.width() {
		return colour.Reference{}, fmt.Errorf("expected at least %d fields, got %d", layout.width(), len(fields))
	}

	name := strings.TrimSpace(fields[layout.NameColumn])
	if name == "" {
		return colour.Reference{}, fmt.Errorf("empty name in column %d", layout.NameColumn)
	}

	var values [3]float64
	for i, col := range []int{layout.LColumn, layout.AColumn, layout.BColumn} {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[col]), 64)
		if err != nil {
			return colour.Reference{}, fmt.Errorf("column %d: %w", col, err)
		}
		values[i] = v
	}

	return colour.Reference{
		Name: name,
		Lab:  colour.Lab{L: values[0], A: values[1], B: values[2]},
	}, nil
}

// Builtin returns the reference set shipped with the binary, using layout
// to pick the name column. The built-in file uses the localised layout.
func Builtin(layout Layout, logger hclog.Logger) (colour.ReferenceSet, error) {
	return Load(bytes.NewReader(builtin), layout, logger)
}
