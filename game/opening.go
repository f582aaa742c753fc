// opening.go implements random opening positions for self-play.

package game

import (
	"math/rand"
)

// OpeningSettings controls how random openings are generated.
type OpeningSettings struct {
	Plies int // Number of random moves played before the agents take over
}

// DefaultOpeningSettings plays two random moves (one per side).
var DefaultOpeningSettings = OpeningSettings{Plies: 2}

// RandomOpening returns a board of the given size with settings.Plies random
// moves played alternately, Red first. Moves that would complete a line are
// skipped so the returned position is never decided.
// If rng is nil, we use deterministic pseudo-random logic seeded by salt.
func RandomOpening(size int, rng *rand.Rand, settings OpeningSettings, salt uint64) (*Board, error) {
	b, err := NewBoard(size)
	if err != nil {
		return nil, err
	}

	side := Red
	for ply := 0; ply < settings.Plies; ply++ {
		candidates := make([]int, 0, size)
		for col := 0; col < size; col++ {
			if !b.HasSpace(col) {
				continue
			}
			probe := b.Clone()
			probe.Drop(col, side)
			if probe.CompletesFour(col, side) {
				continue
			}
			candidates = append(candidates, col)
		}
		if len(candidates) == 0 {
			break
		}

		var idx int
		if rng != nil {
			idx = rng.Intn(len(candidates))
		} else {
			// Deterministic fallback: hash of ply+salt
			idx = int(deterministicU64Fast(uint64(ply), salt) % uint64(len(candidates)))
		}
		b.Drop(candidates[idx], side)
		side = side.Opponent()
	}
	return b, nil
}

// deterministicU64Fast is a simple deterministic hasher for reproducibility.
func deterministicU64Fast(a, b uint64) uint64 {
	// Variant of splitmix64
	x := a + b
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
