package telemetry

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	ParentID   uint32
	Generation int

	Meals      int
	Encounters int
	Children   int
	PeakEnergy float64
}

// LifetimeTracker manages per-creature lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new creature.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, parentID uint32, generation int, energy float64) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		ParentID:   parentID,
		Generation: generation,
		PeakEnergy: energy,
	}
	if p := lt.stats[parentID]; p != nil && parentID != id {
		p.Children++
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a creature's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	s := lt.stats[id]
	delete(lt.stats, id)
	return s
}

// RecordMeal counts a food contact and tracks peak energy.
func (lt *LifetimeTracker) RecordMeal(id uint32, energy float64) {
	if s := lt.stats[id]; s != nil {
		s.Meals++
		if energy > s.PeakEnergy {
			s.PeakEnergy = energy
		}
	}
}

// RecordEncounter counts a creature contact.
func (lt *LifetimeTracker) RecordEncounter(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Encounters++
	}
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
