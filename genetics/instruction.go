package genetics

// Instruction is one decoded step of a creature's movement program.
type Instruction uint8

const (
	Rest Instruction = iota
	MoveE
	MoveN
	MoveS
	MoveW
	numInstructions
)

// instructionWidth partitions [0,255] into equal buckets; the last absorbs the remainder.
const instructionWidth = (GeneMax + 1) / int(numInstructions)

var instructionNames = [...]string{"rest", "move_e", "move_n", "move_s", "move_w"}

func (in Instruction) String() string {
	if int(in) < len(instructionNames) {
		return instructionNames[in]
	}
	return "unknown"
}

// DecodeInstruction maps a movement gene onto an instruction.
func DecodeInstruction(gene int) Instruction {
	return Instruction(bucket(gene, instructionWidth, int(numInstructions)))
}

// Impulse returns the impulse components for this instruction at the given magnitude.
func (in Instruction) Impulse(magnitude float64) (x, y float64) {
	switch in {
	case MoveE:
		return 0, magnitude
	case MoveN:
		return -magnitude, 0
	case MoveS:
		return magnitude, 0
	case MoveW:
		return 0, -magnitude
	default:
		return 0, 0
	}
}

// bucket returns gene/width clamped to [0, n).
func bucket(gene, width, n int) int {
	if gene < 0 {
		return 0
	}
	idx := gene / width
	if idx >= n {
		return n - 1
	}
	return idx
}
