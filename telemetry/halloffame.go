package telemetry

import (
	"encoding/json"
	"sort"

	"github.com/kgilmer/PiccadillyLife/genetics"
)

// Entry criteria and fitness weights.
const (
	hallMinChildren = 1
	hallMinMeals    = 5

	hallChildrenWeight = 10.0
	hallMealWeight     = 1.0
	hallSurvivalWeight = 0.1 // per second lived
)

// HallEntry records a successful creature's genome and fitness.
type HallEntry struct {
	CreatureID  uint32  `json:"creature_id"`
	Generation  int     `json:"generation"`
	Strategy    string  `json:"strategy"`
	Genes       []int   `json:"genes"`
	Fitness     float64 `json:"fitness"`
	Children    int     `json:"children"`
	Meals       int     `json:"meals"`
	SurvivalSec float64 `json:"survival_sec"`
	PeakEnergy  float64 `json:"peak_energy"`
}

// HallOfFame keeps the fittest creatures of a run, best first.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize entries.
func NewHallOfFame(maxSize int) *HallOfFame {
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates a creature at death (or at the end of a run) for
// entry. Returns true if it was added.
func (hof *HallOfFame) Consider(id uint32, dna *genetics.MovingDNA, stats *LifetimeStats, survivalSec float64) bool {
	if stats == nil || dna == nil {
		return false
	}
	if stats.Children < hallMinChildren && stats.Meals < hallMinMeals {
		return false
	}

	entry := HallEntry{
		CreatureID:  id,
		Generation:  stats.Generation,
		Strategy:    dna.Strategy().String(),
		Genes:       dna.Genes(),
		Children:    stats.Children,
		Meals:       stats.Meals,
		SurvivalSec: survivalSec,
		PeakEnergy:  stats.PeakEnergy,
	}
	entry.Fitness = float64(stats.Children)*hallChildrenWeight +
		float64(stats.Meals)*hallMealWeight +
		survivalSec*hallSurvivalWeight

	if len(hof.entries) == hof.maxSize && entry.Fitness <= hof.entries[len(hof.entries)-1].Fitness {
		return false
	}
	hof.entries = hof.insertEntry(hof.entries, entry)
	return true
}

// insertEntry inserts by descending fitness, dropping the weakest when full.
func (hof *HallOfFame) insertEntry(hall []HallEntry, entry HallEntry) []HallEntry {
	idx := sort.Search(len(hall), func(i int) bool {
		return hall[i].Fitness < entry.Fitness
	})
	hall = append(hall, HallEntry{})
	copy(hall[idx+1:], hall[idx:])
	hall[idx] = entry
	if len(hall) > hof.maxSize {
		hall = hall[:hof.maxSize]
	}
	return hall
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// TopFitness returns the best fitness, or 0 when empty.
func (hof *HallOfFame) TopFitness() float64 {
	if len(hof.entries) == 0 {
		return 0
	}
	return hof.entries[0].Fitness
}

// Clone returns an independent copy of the hall.
func (hof *HallOfFame) Clone() *HallOfFame {
	c := NewHallOfFame(hof.maxSize)
	c.entries = append(c.entries, hof.entries...)
	return c
}

// Entries returns a copy of the entries, best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return append([]HallEntry(nil), hof.entries...)
}

// MarshalJSON serializes the hall as a JSON array of entries.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(hof.entries, "", "  ")
}
