// Package telemetry provides population health tracking, perf timing,
// CSV output and the lineage ledger.
package telemetry

import (
	"github.com/kgilmer/PiccadillyLife/components"
	"github.com/kgilmer/PiccadillyLife/genetics"
)

// EventType identifies lineage events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
)

func (t EventType) String() string {
	if t == EventBirth {
		return "birth"
	}
	return "death"
}

// Event is one birth or death, buffered until the next window flush.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	Kind     components.Kind

	// Births
	ParentID   uint32
	Generation int
	Strategy   genetics.Strategy
	Genes      []int

	// Deaths
	Age    int
	Energy float64
}

// NewBirthEvent creates a birth event for a creature. Seeded founders have
// parent 0 and generation 0.
func NewBirthEvent(tick int32, childID, parentID uint32, generation int, dna *genetics.MovingDNA) Event {
	return Event{
		Type:       EventBirth,
		Tick:       tick,
		EntityID:   childID,
		Kind:       components.KindCreature,
		ParentID:   parentID,
		Generation: generation,
		Strategy:   dna.Strategy(),
		Genes:      dna.Genes(),
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, entityID uint32, kind components.Kind, age int, energy float64) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		EntityID: entityID,
		Kind:     kind,
		Age:      age,
		Energy:   energy,
	}
}
