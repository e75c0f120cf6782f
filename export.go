package bloomfield

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
)

// BloomRecord is one CSV row of a population dump, oldest bloom first.
type BloomRecord struct {
	Order    int     `csv:"order"`
	ID       string  `csv:"id"`
	X        float64 `csv:"x"`
	Y        float64 `csv:"y"`
	Z        float64 `csv:"z"`
	Petals   int     `csv:"petals"`
	Scale    float64 `csv:"scale"`
	Rotation float64 `csv:"rotation"`
	Color    string  `csv:"color"`
	Opacity  float64 `csv:"opacity"`
	Layer    float64 `csv:"layer"`
}

// Records converts blooms to CSV rows, preserving order.
func Records(blooms []Bloom) []BloomRecord {
	out := make([]BloomRecord, len(blooms))
	for i, b := range blooms {
		out[i] = BloomRecord{
			Order:    i,
			ID:       b.ID.String(),
			X:        b.Position.X,
			Y:        b.Position.Y,
			Z:        b.Position.Z,
			Petals:   b.Petals,
			Scale:    b.Scale,
			Rotation: b.Rotation,
			Color:    b.Color.Name,
			Opacity:  b.Opacity,
			Layer:    b.Layer,
		}
	}
	return out
}

// EntryBlooms extracts the blooms of a snapshot.
func EntryBlooms(entries []Entry) []Bloom {
	out := make([]Bloom, len(entries))
	for i, e := range entries {
		out[i] = e.Bloom
	}
	return out
}

// WriteCSV writes blooms as CSV with a header row.
func WriteCSV(w io.Writer, blooms []Bloom) error {
	records := Records(blooms)
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// ExportCSV writes blooms to a timestamped CSV file in dir and returns its
// path.
func ExportCSV(dir string, blooms []Bloom, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("blooms_%s.csv", now.Format("20060102_150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}
	if err := WriteCSV(f, blooms); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}
	return path, nil
}
