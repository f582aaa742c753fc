package rules

import (
	"fmt"

	"github.com/brensch/c4killer/game"
)

// GetLegalMoves returns the columns that still accept a piece, in ascending order.
func GetLegalMoves(b *game.Board) []int {
	moves := make([]int, 0, b.Size())
	for col := 0; col < b.Size(); col++ {
		if b.HasSpace(col) {
			moves = append(moves, col)
		}
	}
	return moves
}

// NextState returns a copy of b with a piece for side dropped into col.
// The input board is never modified.
func NextState(b *game.Board, col int, side game.Cell) *game.Board {
	next := b.Clone()
	next.Drop(col, side)
	return next
}

// Play drops a piece for side into col after validating the move.
func Play(b *game.Board, col int, side game.Cell) (int, error) {
	if col < 0 || col >= b.Size() {
		return -1, fmt.Errorf("%w: %d", game.ErrColumnOutOfGrid, col)
	}
	if !side.Valid() {
		return -1, fmt.Errorf("play column %d: invalid side %d", col, side)
	}
	if !b.HasSpace(col) {
		return -1, fmt.Errorf("%w: %d", game.ErrColumnFull, col)
	}
	return b.Drop(col, side), nil
}

// Winner scans the whole board and returns the side owning a line of
// game.WinLength pieces, or game.Empty when there is none.
func Winner(b *game.Board) game.Cell {
	n := b.Size()
	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			side := b.Occupant(r, c)
			if side == game.Empty {
				continue
			}
			for _, d := range dirs {
				k := 1
				for k < game.WinLength && b.Occupant(r+k*d[0], c+k*d[1]) == side {
					k++
				}
				if k == game.WinLength {
					return side
				}
			}
		}
	}
	return game.Empty
}

// IsGameOver returns true if a side has won or the board is full.
func IsGameOver(b *game.Board) bool {
	return Winner(b) != game.Empty || !b.AnyMovePossible()
}

// GetResult returns the result of the game from perspective's point of view
// (+1 for win, -1 for loss, 0 for a draw or an unfinished game).
func GetResult(b *game.Board, perspective game.Cell) float32 {
	switch Winner(b) {
	case game.Empty:
		return 0.0
	case perspective:
		return 1.0
	default:
		return -1.0
	}
}
