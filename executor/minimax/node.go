package minimax

import (
	"math"

	"github.com/brensch/c4killer/game"
)

const (
	// Infinite is returned by a minimizing level that finds the last move won.
	Infinite = math.MaxInt
	// MinusInfinite is returned by a maximizing level that finds the last move won.
	MinusInfinite = math.MinInt
)

// Node is the context of one search call.
type Node struct {
	// Board is owned by this call; children get their own clones.
	Board *game.Board

	// Depth is the number of plies still allowed below this node.
	Depth int

	// Column is the column of the move that produced Board.
	Column int

	// Color is the side the evaluator scores for. It stays the same for the
	// whole search of a root move; only the color of the dropped piece flips.
	Color game.Cell

	Alpha int
	Beta  int
}

// Searcher runs depth-bounded minimax with optional alpha-beta pruning.
// A Searcher is not safe for concurrent use.
type Searcher struct {
	Pruning bool

	// Boards counts the search calls made since the last reset.
	Boards int
}
