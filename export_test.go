package bloomfield

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func exportBlooms() []Bloom {
	return []Bloom{
		{ID: BloomID{Seq: 1, Salt: 0xabc}, Position: Vec3{X: 1.5, Y: 2}, Petals: 3, Scale: 2,
			Color: PaletteColor{Name: "hot pink"}, Opacity: 0.8, Layer: 2},
		{ID: BloomID{Seq: 2}, Position: Vec3{Z: -1}, Petals: 5, Scale: 0.5,
			Color: PaletteColor{Name: "rose"}, Opacity: 1},
	}
}

func TestRecordsKeepOrder(t *testing.T) {
	recs := Records(exportBlooms())
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Order != 0 || recs[1].Order != 1 {
		t.Errorf("orders = %d,%d", recs[0].Order, recs[1].Order)
	}
	if recs[0].ID != "bloom-1-00000abc" || recs[0].Color != "hot pink" || recs[0].Layer != 2 {
		t.Errorf("record 0 = %+v", recs[0])
	}
	if recs[1].Z != -1 {
		t.Errorf("record 1 z = %f", recs[1].Z)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, exportBlooms()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if want := "order,id,x,y,z,petals,scale,rotation,color,opacity,layer"; lines[0] != want {
		t.Errorf("header = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "0,bloom-1-00000abc,1.5,2,") {
		t.Errorf("row 1 = %q", lines[1])
	}
}

func TestEntryBlooms(t *testing.T) {
	pop := NewPopulation(3)
	for _, b := range exportBlooms() {
		pop.Append(b)
	}
	got := EntryBlooms(pop.Snapshot())
	if len(got) != 2 || got[0].ID.Seq != 1 || got[1].ID.Seq != 2 {
		t.Errorf("EntryBlooms = %+v", got)
	}
}

func TestExportCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.Date(2026, 3, 8, 9, 30, 0, 0, time.UTC)
	path, err := ExportCSV(dir, exportBlooms(), now)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	if filepath.Base(path) != "blooms_20260308_093000.csv" {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "order,id,") {
		t.Errorf("file does not start with the header: %q", data[:20])
	}
}
