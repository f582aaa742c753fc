package minimax

import "github.com/brensch/c4killer/game"

// runLength is the length of the diagonal run scored from each piece.
const runLength = 4

// emptyWeight is the contribution of an empty square in a run.
const emptyWeight = 10

// Evaluate scores b for color by looking at the run of four squares going up
// and to the right from every piece. A run starting on color's piece counts
// positively and one starting on an opponent piece negatively; inside a run,
// color's pieces add 1, empty squares add 10 and opponent pieces nothing.
//
// Only that one diagonal direction is inspected.
func Evaluate(b *game.Board, color game.Cell) int {
	h, size := 0, b.Size()
	for c := 0; c < size; c++ {
		for f := 0; f < size; f++ {
			start := b.Occupant(f, c)
			if start == game.Empty {
				continue
			}
			sign := -1
			if start == color {
				sign = 1
			}
			for i := 0; i < runLength; i++ {
				if f+i >= size || c+i >= size {
					continue
				}
				switch b.Occupant(f+i, c+i) {
				case color:
					h += sign
				case game.Empty:
					h += sign * emptyWeight
				}
			}
		}
	}
	return h
}
