package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBreedingBurst       BookmarkType = "breeding_burst"
	BookmarkPopulationRecovery  BookmarkType = "population_recovery"
	BookmarkPopulationCrash     BookmarkType = "population_crash"
	BookmarkStablePopulation    BookmarkType = "stable_population"
	BookmarkGenerationMilestone BookmarkType = "generation_milestone"
)

// generationStep is the spacing of generation milestones.
const generationStep = 10

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentMin     int // minimum creature count since the last recovery
	recentPeak    int // peak creature count since the last crash
	stableWindows int // consecutive windows with a steady population
	lastMilestone int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable population detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		recentMin:   -1,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkBreedingBurst,
			bd.checkRecovery,
			bd.checkCrash,
			bd.checkStable,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}
	if b := bd.checkGeneration(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if bd.recentMin < 0 || stats.Creatures < bd.recentMin {
		bd.recentMin = stats.Creatures
	}
	if stats.Creatures > bd.recentPeak {
		bd.recentPeak = stats.Creatures
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n history entries, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	var ordered []WindowStats
	if bd.historyFull {
		ordered = append(ordered, bd.history[bd.historyIdx:]...)
		ordered = append(ordered, bd.history[:bd.historyIdx]...)
	} else {
		ordered = bd.history[:bd.historyIdx]
	}
	if len(ordered) > n {
		ordered = ordered[len(ordered)-n:]
	}
	return ordered
}

func (bd *BookmarkDetector) checkBreedingBurst(stats WindowStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Births
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 || stats.Births < 3 {
		return nil
	}

	if float64(stats.Births) > avg*2 {
		return &Bookmark{
			Type:        BookmarkBreedingBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkRecovery(stats WindowStats) *Bookmark {
	if bd.recentMin <= 0 || bd.recentMin > 3 {
		return nil
	}

	if stats.Creatures >= bd.recentMin*3 && stats.Creatures >= 6 {
		oldMin := bd.recentMin
		bd.recentMin = stats.Creatures
		return &Bookmark{
			Type:        BookmarkPopulationRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Creatures recovered from %d to %d", oldMin, stats.Creatures),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.Creatures)/float64(bd.recentPeak)
	if drop > 0.30 && stats.Creatures <= bd.recentPeak-5 {
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Creatures
		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Creatures crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Creatures),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStable(stats WindowStats) *Bookmark {
	if stats.Creatures < 5 {
		bd.stableWindows = 0
		return nil
	}

	history := bd.recent(4)
	if len(history) < 4 {
		return nil
	}

	counts := make([]float64, len(history))
	for i, h := range history {
		counts[i] = float64(h.Creatures)
	}
	mean, variance := stat.PopMeanVariance(counts, nil)

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindows++
	} else {
		bd.stableWindows = 0
	}

	if bd.stableWindows == 5 { // trigger exactly once per stable stretch
		return &Bookmark{
			Type:        BookmarkStablePopulation,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable population of %d over 5+ windows", stats.Creatures),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkGeneration(stats WindowStats) *Bookmark {
	milestone := stats.MaxGeneration / generationStep * generationStep
	if milestone == 0 || milestone <= bd.lastMilestone {
		return nil
	}
	bd.lastMilestone = milestone
	return &Bookmark{
		Type:        BookmarkGenerationMilestone,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Generation %d reached", stats.MaxGeneration),
	}
}
