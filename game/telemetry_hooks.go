package game

import (
	"context"
	"log/slog"

	"github.com/kgilmer/PiccadillyLife/telemetry"
)

// flushTelemetry closes the stats window once enough physics steps have
// passed, then writes CSV rows, the lineage events of the window and any
// bookmarks it triggers.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perf.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := g.writeLineage(); err != nil {
		slog.Error("failed to write lineage", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// samplePopulation collects the live creature and food state.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	var pop telemetry.PopulationSample

	cq := g.creatureView.Query()
	for cq.Next() {
		en, cr := cq.Get()
		if !en.Alive() {
			continue
		}
		pop.Energies = append(pop.Energies, en.Value)
		pop.Ages = append(pop.Ages, float64(cr.Age))
		pop.Strategies[cr.DNA.Strategy()]++
		if cr.Generation > pop.MaxGeneration {
			pop.MaxGeneration = cr.Generation
		}
	}

	fq := g.foodView.Query()
	for fq.Next() {
		en, _ := fq.Get()
		if !en.Alive() {
			continue
		}
		pop.FoodCount++
		pop.FoodEnergy += en.Value
	}
	return pop
}

// recordEvent buffers a lineage event until the next window flush.
func (g *Game) recordEvent(ev telemetry.Event) {
	if g.lineage != nil {
		g.pending = append(g.pending, ev)
	}
}

// writeLineage drains pending birth and death events into the ledger.
func (g *Game) writeLineage() error {
	if g.lineage == nil || len(g.pending) == 0 {
		return nil
	}
	events := g.pending
	g.pending = nil
	return g.lineage.WriteEvents(context.Background(), events)
}
