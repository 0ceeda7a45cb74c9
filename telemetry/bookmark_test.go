package telemetry

import (
	"testing"
)

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_BreedingBurst(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 500), Creatures: 20, Births: 2})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 2500, Creatures: 25, Births: 8})
	if !hasBookmark(bms, BookmarkBreedingBurst) {
		t.Error("expected breeding_burst bookmark")
	}
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 500), Creatures: 30})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 2500, Creatures: 15})
	if !hasBookmark(bms, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}

	// The peak resets, so a flat follow-up window does not fire again.
	bms = bd.Check(WindowStats{WindowEndTick: 3000, Creatures: 15})
	if hasBookmark(bms, BookmarkPopulationCrash) {
		t.Error("crash bookmark fired twice")
	}
}

func TestBookmarkDetector_PopulationRecovery(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 500), Creatures: 2})
	}

	bms := bd.Check(WindowStats{WindowEndTick: 1500, Creatures: 10})
	if !hasBookmark(bms, BookmarkPopulationRecovery) {
		t.Error("expected population_recovery bookmark")
	}
}

func TestBookmarkDetector_StablePopulation(t *testing.T) {
	bd := NewBookmarkDetector(10)

	fired := 0
	for i := 0; i < 12; i++ {
		bms := bd.Check(WindowStats{WindowEndTick: int32(i * 500), Creatures: 20})
		if hasBookmark(bms, BookmarkStablePopulation) {
			fired++
			if i != 8 {
				t.Errorf("stable bookmark at window %d, want 8", i)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stable bookmark fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_GenerationMilestone(t *testing.T) {
	bd := NewBookmarkDetector(10)

	tests := []struct {
		gen  int
		want bool
	}{
		{3, false},
		{10, true},
		{14, false},
		{25, true},
		{25, false},
	}
	for i, tt := range tests {
		bms := bd.Check(WindowStats{WindowEndTick: int32(i * 500), Creatures: 20, MaxGeneration: tt.gen})
		if got := hasBookmark(bms, BookmarkGenerationMilestone); got != tt.want {
			t.Errorf("generation %d: milestone = %v, want %v", tt.gen, got, tt.want)
		}
	}
}
