package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

type SearchRecord struct {
	Game int
	Step int
	SearchMetric
}

type GameRecord struct {
	ID     int
	First  int // player ID moving first
	Second int
	Result string
	Steps  int
}

// Writer stores experiment records as CSV files in one directory.
type Writer struct {
	baseDir string
}

func NewWriter(baseDir string) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// WriteSearchRecords replaces searches.csv with one row per search.
func (w *Writer) WriteSearchRecords(records []SearchRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Step),
			r.Duration.String(),
			strconv.Itoa(r.Simulations),
			strconv.FormatBool(r.IsTreeReset),
			strconv.FormatBool(r.IsProven),
		})
	}
	header := []string{"game", "step", "duration", "simulations", "is_tree_reset", "is_proven"}
	return w.write("searches.csv", header, rows)
}

// WriteGameRecords replaces games.csv with one row per game.
func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.First),
			strconv.Itoa(r.Second),
			r.Result,
			strconv.Itoa(r.Steps),
		})
	}
	return w.write("games.csv", []string{"id", "first", "second", "result", "steps"}, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return f.Close()
}
