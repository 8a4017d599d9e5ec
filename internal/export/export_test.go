package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sadopc/plantr/internal/care"
	"github.com/sadopc/plantr/internal/store"
)

var fixedNow = time.Date(2026, 4, 20, 10, 0, 0, 0, time.UTC)

func sampleData() []store.Plant {
	ms := fixedNow.UnixMilli()
	fam := "Araceae"
	return []store.Plant{
		{
			ID:                      1,
			Name:                    "Monstera",
			SpeciesFamily:           &fam,
			Location:                "Living room",
			WateringIntervalDays:    7,
			FertilizingIntervalDays: 70,
			RepottingIntervalMonths: 12,
			LastWateredAt:           ms - care.DayMillis,
			LastFertilizedAt:        ms,
			LastRepottedAt:          ms,
		},
		{
			ID:                   2,
			Name:                 "Thirsty fern",
			WateringIntervalDays: 3,
			LastWateredAt:        ms - 5*care.DayMillis,
		},
		{
			ID:   3,
			Name: "Unscheduled",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleData(), fixedNow, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	records := readCSV(t, path)

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}
	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "1" || row[1] != "Monstera" || row[2] != "Araceae" || row[3] != "Living room" {
		t.Fatalf("unexpected identity columns %v", row[:4])
	}
	if row[4] != "ok" {
		t.Fatalf("Status = %q, want ok", row[4])
	}
	if row[5] != "7" || row[6] != "70" || row[7] != "12" {
		t.Fatalf("unexpected intervals %v", row[5:8])
	}
	wantNext := time.UnixMilli(fixedNow.UnixMilli() + 6*care.DayMillis).Local().Format(time.RFC3339)
	if row[9] != wantNext {
		t.Fatalf("Next watering = %q, want %q", row[9], wantNext)
	}

	if records[2][4] != "overdue" {
		t.Fatalf("second plant status = %q, want overdue", records[2][4])
	}

	unscheduled := records[3]
	if unscheduled[4] != "unknown" {
		t.Fatalf("plant without interval should be unknown, got %q", unscheduled[4])
	}
	for i := 8; i < len(unscheduled); i++ {
		if unscheduled[i] != "" {
			t.Fatalf("column %s should be empty, got %q", csvHeader[i], unscheduled[i])
		}
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, fixedNow, path); err != nil {
		t.Fatal(err)
	}
	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(nil, fixedNow, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	plants := []store.Plant{{ID: 1, Name: `Plant "Special"`, Location: "Shelf, top", WateringIntervalDays: 1}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(plants, fixedNow, path); err != nil {
		t.Fatal(err)
	}
	records := readCSV(t, path)
	if records[1][1] != `Plant "Special"` {
		t.Fatalf("plant name mangled: %q", records[1][1])
	}
	if records[1][3] != "Shelf, top" {
		t.Fatalf("location mangled: %q", records[1][3])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleData(), fixedNow, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result document
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Count != 3 || len(result.Plants) != 3 {
		t.Fatalf("count = %d, plants = %d, want 3", result.Count, len(result.Plants))
	}
	if result.ExportedAt != "2026-04-20T10:00:00Z" {
		t.Fatalf("exported_at = %q", result.ExportedAt)
	}

	p := result.Plants[0]
	if p.Name != "Monstera" || p.SpeciesFamily != "Araceae" || p.Status != "ok" {
		t.Fatalf("unexpected first plant %+v", p)
	}
	for _, ts := range []string{p.LastWatered, p.NextWatering, p.NextFertilizing, p.NextRepotting} {
		if _, err := time.Parse(time.RFC3339, ts); err != nil {
			t.Fatalf("not RFC3339: %q", ts)
		}
	}
	if result.Plants[2].NextWatering != "" {
		t.Fatalf("unscheduled plant should have no next watering")
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, fixedNow, path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"plants": []`) {
		t.Fatalf("empty export should carry an empty array, got %s", data)
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, fixedNow, "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleData(), fixedNow); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatal("JSON should be indented")
	}
}

// ============================================================
// TOML
// ============================================================

func TestToTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garden.toml")

	if err := ToTOML(sampleData(), fixedNow, path); err != nil {
		t.Fatalf("ToTOML: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[[plant]]") {
		t.Fatalf("expected [[plant]] tables, got:\n%s", data)
	}

	var result document
	if err := toml.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid TOML: %v", err)
	}
	if result.Count != 3 || len(result.Plants) != 3 {
		t.Fatalf("count = %d, plants = %d", result.Count, len(result.Plants))
	}
	if result.Plants[1].Name != "Thirsty fern" || result.Plants[1].Status != "overdue" {
		t.Fatalf("unexpected second plant %+v", result.Plants[1])
	}
}

func TestToTOMLBadPath(t *testing.T) {
	if err := ToTOML(nil, fixedNow, "/nonexistent/dir/file.toml"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

// ============================================================
// Write
// ============================================================

func TestWriteDispatch(t *testing.T) {
	dir := t.TempDir()
	for _, format := range []string{FormatCSV, FormatJSON, FormatTOML} {
		path := filepath.Join(dir, "out."+format)
		if err := Write(format, sampleData(), fixedNow, path); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("%s: nothing written", format)
		}
	}
	if err := Write("xml", nil, fixedNow, filepath.Join(dir, "out.xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
