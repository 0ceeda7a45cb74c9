package genetics

// Strategy selects how a creature's DNA is copied into its offspring.
type Strategy uint8

const (
	Exact Strategy = iota
	Scrambled
	Mutate
	Combine
	NumStrategies
)

const strategyWidth = (GeneMax + 1) / int(NumStrategies)

var strategyNames = [...]string{"exact", "scrambled", "mutate", "combine"}

func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

// DecodeStrategy maps the strategy gene onto one of the equal-width buckets.
func DecodeStrategy(gene int) Strategy {
	return Strategy(bucket(gene, strategyWidth, int(NumStrategies)))
}
