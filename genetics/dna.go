// Package genetics implements the fixed-length gene encoding shared by
// creatures and food, its phenotype decoding, and the reproduction
// strategies used to copy creature DNA into offspring.
package genetics

import (
	"image/color"
	"math/rand"
)

// Gene layout of a creature.
const (
	TotalGenes    = 27
	MovementGenes = 20
	GeneMax       = 255

	colorGene     = 20 // three channels: r, g, b
	restGene      = 23
	radiusGene    = 24
	thresholdGene = 25
	strategyGene  = 26

	radiusScale = 100.0
)

// Phenotype holds the traits decoded from a creature gene array.
type Phenotype struct {
	Movement   [MovementGenes]Instruction
	Color      color.RGBA
	RestCycles int
	Radius     float64
	Threshold  int
	Strategy   Strategy
}

// Decode converts genes into a phenotype. Missing genes read as zero and
// out-of-range values are clamped where a bounded trait needs it.
func Decode(genes []int) Phenotype {
	at := func(i int) int {
		if i < len(genes) {
			return genes[i]
		}
		return 0
	}

	var p Phenotype
	for i := range p.Movement {
		p.Movement[i] = DecodeInstruction(at(i))
	}
	p.Color = color.RGBA{
		R: channel(at(colorGene)),
		G: channel(at(colorGene + 1)),
		B: channel(at(colorGene + 2)),
		A: 0xff,
	}
	p.RestCycles = at(restGene)
	p.Radius = float64(at(radiusGene)) / radiusScale
	p.Threshold = at(thresholdGene)
	p.Strategy = DecodeStrategy(at(strategyGene))
	return p
}

func channel(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > GeneMax:
		return GeneMax
	default:
		return uint8(v)
	}
}

// RandomGenes returns n genes drawn uniformly from [0, 255].
func RandomGenes(rng *rand.Rand, n int) []int {
	genes := make([]int, n)
	for i := range genes {
		genes[i] = rng.Intn(GeneMax + 1)
	}
	return genes
}

// MovingDNA is the genome of a creature. The gene array is fixed once
// constructed; only the recorded peer changes.
type MovingDNA struct {
	genes     [TotalGenes]int
	phenotype Phenotype

	peer    [TotalGenes]int
	hasPeer bool
}

// NewMovingDNA builds DNA from a gene slice. Short slices are zero padded,
// extra genes are ignored.
func NewMovingDNA(genes []int) *MovingDNA {
	d := &MovingDNA{}
	copy(d.genes[:], genes)
	d.phenotype = Decode(d.genes[:])
	return d
}

// SeedParams bounds the traits of founder creatures.
type SeedParams struct {
	MaxRadius        float64
	MinRestCycles    int
	RestCyclesSpread int
	MinThreshold     int
	ThresholdSpread  int
}

// SeedMovingDNA builds founder DNA: a random movement program and colour
// with rest cycles, radius, threshold and strategy drawn from p.
func SeedMovingDNA(rng *rand.Rand, p SeedParams) *MovingDNA {
	genes := RandomGenes(rng, TotalGenes)
	genes[restGene] = p.MinRestCycles + intn(rng, p.RestCyclesSpread)
	genes[radiusGene] = int(rng.Float64() * p.MaxRadius * radiusScale)
	genes[thresholdGene] = p.MinThreshold + intn(rng, p.ThresholdSpread)
	genes[strategyGene] = rng.Intn(GeneMax + 1)
	return NewMovingDNA(genes)
}

func intn(rng *rand.Rand, n int) int {
	if n <= 0 {
		return 0
	}
	return rng.Intn(n)
}

// Genes returns a copy of the gene array.
func (d *MovingDNA) Genes() []int {
	out := make([]int, TotalGenes)
	copy(out, d.genes[:])
	return out
}

func (d *MovingDNA) Phenotype() Phenotype { return d.phenotype }

// Instruction returns the decoded movement instruction at cursor, wrapping.
func (d *MovingDNA) Instruction(cursor int) Instruction {
	return d.phenotype.Movement[((cursor%MovementGenes)+MovementGenes)%MovementGenes]
}

func (d *MovingDNA) Color() color.RGBA {
	return d.phenotype.Color
}

func (d *MovingDNA) RestCycles() int {
	return d.phenotype.RestCycles
}

func (d *MovingDNA) Radius() float64 {
	return d.phenotype.Radius
}

func (d *MovingDNA) ReproductionThreshold() int {
	return d.phenotype.Threshold
}

func (d *MovingDNA) Strategy() Strategy {
	return d.phenotype.Strategy
}

// PutLastEncounter records the genes of the most recent creature met.
func (d *MovingDNA) PutLastEncounter(peer []int) {
	d.peer = [TotalGenes]int{}
	copy(d.peer[:], peer)
	d.hasPeer = true
}

// HasPeer reports whether an encounter has been recorded.
func (d *MovingDNA) HasPeer() bool { return d.hasPeer }

// Copy produces offspring DNA according to the decoded strategy. It returns
// nil under Combine when no peer has been recorded.
func (d *MovingDNA) Copy(rng *rand.Rand) *MovingDNA {
	switch d.phenotype.Strategy {
	case Scrambled:
		return NewMovingDNA(RandomGenes(rng, TotalGenes))

	case Mutate:
		genes := d.genes
		// Repeated indices are allowed, so fewer genes may change than drawn.
		n := rng.Intn(TotalGenes / 4)
		for i := 0; i < n; i++ {
			genes[rng.Intn(TotalGenes)] = rng.Intn(GeneMax + 1)
		}
		return NewMovingDNA(genes[:])

	case Combine:
		if !d.hasPeer {
			return nil
		}
		p := rng.Intn(TotalGenes)
		var genes [TotalGenes]int
		copy(genes[:p], d.genes[:p])
		copy(genes[p:], d.peer[p:])
		return NewMovingDNA(genes[:])

	default:
		return NewMovingDNA(d.genes[:])
	}
}

// StaticDNA is the genome of a food source: a single radius gene.
type StaticDNA struct {
	gene int
}

// NewStaticDNA encodes radius into a gene.
func NewStaticDNA(radius float64) StaticDNA {
	return StaticDNA{gene: int(radius * radiusScale)}
}

func (d StaticDNA) Gene() int { return d.gene }

func (d StaticDNA) Radius() float64 { return float64(d.gene) / radiusScale }
