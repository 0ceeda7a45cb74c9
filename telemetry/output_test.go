package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := int32(1); i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: i * 500, Creatures: int(i)}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 500); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	for _, b := range []Bookmark{
		{Type: BookmarkPopulationCrash, Tick: 500, Description: "crash"},
		{Type: BookmarkGenerationMilestone, Tick: 1000, Description: "Generation 10 reached"},
	} {
		if err := om.WriteBookmark(b); err != nil {
			t.Fatalf("WriteBookmark: %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header written more than once")
	}
	if !strings.HasPrefix(lines[3], "1500,") {
		t.Errorf("unexpected last row %q", lines[3])
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if n := len(strings.Split(strings.TrimSpace(string(perf)), "\n")); n != 2 {
		t.Errorf("perf.csv has %d lines, want 2", n)
	}

	bookmarks, err := os.ReadFile(filepath.Join(dir, "bookmarks.csv"))
	if err != nil {
		t.Fatalf("reading bookmarks.csv: %v", err)
	}
	rows := strings.Split(strings.TrimSpace(string(bookmarks)), "\n")
	if len(rows) != 3 || rows[0] != "type,tick,description" {
		t.Errorf("unexpected bookmarks.csv:\n%s", bookmarks)
	}
	if !strings.HasPrefix(rows[1], "population_crash,500,") {
		t.Errorf("unexpected bookmark row %q", rows[1])
	}
}
